package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/alphabot-ai/skillswap/internal/client"
	"github.com/alphabot-ai/skillswap/internal/model"
)

var members = []struct {
	name     string
	email    string
	location string
	offers   []string
	wants    []string
}{
	{"ada", "ada@example.com", "London", []string{"Go", "Mathematics"}, []string{"Guitar"}},
	{"linus", "linus@example.com", "Portland", []string{"C", "Kernel hacking"}, []string{"Scuba diving"}},
	{"grace", "grace@example.com", "Arlington", []string{"COBOL", "Public speaking"}, []string{"Pottery"}},
	{"miles", "miles@example.com", "New York", []string{"Trumpet", "Guitar"}, []string{"Go"}},
	{"frida", "frida@example.com", "Mexico City", []string{"Painting", "Pottery"}, []string{"Spanish cooking"}},
	{"julia", "julia@example.com", "Pasadena", []string{"Spanish cooking", "French"}, []string{"Painting"}},
}

var swapMessages = []string{
	"Happy to do a weekly session over video.",
	"I'm a complete beginner, hope that's ok!",
	"Could we start next month?",
	"",
}

var ratingComments = []string{
	"Patient and well prepared.",
	"Learned a lot in two sessions.",
	"Great communicator.",
	"",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "SkillSwap server URL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("seeding", "url", *baseURL)

	clients := make([]*client.Client, 0, len(members))
	for _, m := range members {
		c := client.New(*baseURL)
		creds, err := client.GenerateCredentials(m.name)
		if err != nil {
			logger.Error("generate credentials", "name", m.name, "error", err)
			os.Exit(1)
		}
		if _, err := c.Register(creds, m.email, m.location); err != nil {
			logger.Error("register", "name", m.name, "error", err)
			os.Exit(1)
		}
		if err := c.Authenticate(creds); err != nil {
			logger.Error("authenticate", "name", m.name, "error", err)
			os.Exit(1)
		}
		for _, s := range m.offers {
			if _, err := c.AddSkill(s, model.SkillOffered); err != nil {
				logger.Warn("add skill", "name", m.name, "skill", s, "error", err)
			}
		}
		for _, s := range m.wants {
			if _, err := c.AddSkill(s, model.SkillWanted); err != nil {
				logger.Warn("add skill", "name", m.name, "skill", s, "error", err)
			}
		}
		logger.Info("registered member", "name", m.name, "account_id", c.AccountID)
		clients = append(clients, c)
	}

	// Match every wanted skill with a member who offers it.
	swaps, ratings := 0, 0
	for i, m := range members {
		for _, want := range m.wants {
			for j, other := range members {
				if i == j || !contains(other.offers, want) {
					continue
				}
				swap, err := clients[i].RequestSwap(clients[j].AccountID, m.offers[0], want, swapMessages[rand.Intn(len(swapMessages))])
				if err != nil {
					logger.Warn("request swap", "from", m.name, "to", other.name, "error", err)
					continue
				}
				swaps++

				status := []model.SwapStatus{model.SwapPending, model.SwapAccepted, model.SwapCompleted, model.SwapRejected}[rand.Intn(4)]
				if status == model.SwapPending {
					continue
				}
				if _, err := clients[j].AnswerSwap(swap.ID, status); err != nil {
					logger.Warn("answer swap", "swap_id", swap.ID, "error", err)
					continue
				}
				if status == model.SwapRejected {
					continue
				}
				for _, rater := range []*client.Client{clients[i], clients[j]} {
					if _, err := rater.Rate(swap.ID, rand.Intn(3)+3, ratingComments[rand.Intn(len(ratingComments))]); err == nil {
						ratings++
					}
				}
			}
		}
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Members:  %d\n", len(clients))
	fmt.Printf("Swaps:    %d\n", swaps)
	fmt.Printf("Ratings:  %d\n", ratings)
	fmt.Println("\nPromote an admin with: skillswap promote <account-id>")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
