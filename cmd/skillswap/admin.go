package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alphabot-ai/skillswap/internal/client"
	"github.com/alphabot-ai/skillswap/internal/model"

	"github.com/urfave/cli/v2"
)

func argID(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Args().First()), 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Exit(fmt.Sprintf("usage: skillswap %s %s", c.Command.FullName(), c.Command.ArgsUsage), 1)
	}
	return id, nil
}

func adminAction(fn func(c *cli.Context, api *client.Client) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		api, err := loadAuthenticatedClient()
		if err != nil {
			return err
		}
		return fn(c, api)
	}
}

func setBanned(banned bool) cli.ActionFunc {
	return adminAction(func(c *cli.Context, api *client.Client) error {
		id, err := argID(c)
		if err != nil {
			return err
		}
		state, err := api.SetBanned(id, banned)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s (%d) banned=%t\n", state.DisplayName, state.ID, state.Banned)
		return nil
	})
}

func moderateSkill(action string) cli.ActionFunc {
	return adminAction(func(c *cli.Context, api *client.Client) error {
		id, err := argID(c)
		if err != nil {
			return err
		}
		skill, err := api.ModerateSkill(id, action)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Skill %d '%s' approved=%t\n", skill.ID, skill.Name, skill.Approved)
		return nil
	})
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Moderation commands (requires an admin account)",
		Subcommands: []*cli.Command{
			{
				Name:  "users",
				Usage: "List all accounts",
				Action: adminAction(func(c *cli.Context, api *client.Client) error {
					accounts, err := api.AdminUsers()
					if err != nil {
						return err
					}
					for _, a := range accounts {
						status := ""
						if a.Banned {
							status = " [banned]"
						}
						fmt.Printf("[%d] %-20s %-6s %s%s\n", a.ID, a.DisplayName, a.Role, a.Email, status)
					}
					return nil
				}),
			},
			{Name: "ban", Usage: "Ban an account", ArgsUsage: "<account-id>", Action: setBanned(true)},
			{Name: "unban", Usage: "Lift a ban", ArgsUsage: "<account-id>", Action: setBanned(false)},
			{Name: "approve", Usage: "Approve a skill", ArgsUsage: "<skill-id>", Action: moderateSkill("approve")},
			{Name: "reject", Usage: "Reject a skill", ArgsUsage: "<skill-id>", Action: moderateSkill("reject")},
			{
				Name:  "broadcast",
				Usage: "Send a platform message to all members",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "message", Required: true},
					&cli.StringFlag{Name: "type", Value: "info", Usage: "info, warning, maintenance or update"},
				},
				Action: adminAction(func(c *cli.Context, api *client.Client) error {
					msg, err := api.Broadcast(c.String("title"), c.String("message"), model.MessageType(c.String("type")))
					if err != nil {
						return err
					}
					fmt.Printf("✓ Broadcast message %d\n", msg.ID)
					return nil
				}),
			},
			{
				Name:  "report",
				Usage: "Show platform activity",
				Action: adminAction(func(c *cli.Context, api *client.Client) error {
					r, err := api.Report()
					if err != nil {
						return err
					}
					fmt.Printf("Active accounts: %d\n", r.ActiveAccounts)
					fmt.Printf("Ratings:         %d (avg %.2f)\n", r.Ratings.Total, r.Ratings.Average)
					for _, s := range r.Swaps {
						fmt.Printf("Swaps %-10s %d\n", s.Status, s.Total)
					}
					for _, s := range r.Skills {
						fmt.Printf("Skills %-9s %d\n", s.Type, s.Total)
					}
					return nil
				}),
			},
			{
				Name:  "swaps",
				Usage: "List all swap requests",
				Action: adminAction(func(c *cli.Context, api *client.Client) error {
					swaps, err := api.AdminSwaps()
					if err != nil {
						return err
					}
					printSwaps(swaps)
					return nil
				}),
			},
			{
				Name:  "logs",
				Usage: "Read the audit log",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "target-type", Usage: "user, skill or platform_message"},
					&cli.Int64Flag{Name: "target-id"},
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: adminAction(func(c *cli.Context, api *client.Client) error {
					entries, err := api.AuditLog(model.AuditTarget(c.String("target-type")), c.Int64("target-id"), c.Int("limit"))
					if err != nil {
						return err
					}
					for _, e := range entries {
						fmt.Printf("%s  admin=%d  %-14s %s/%d  %s\n",
							e.CreatedAt.Format("2006-01-02 15:04:05"), e.AdminID, e.Action, e.TargetType, e.TargetID, e.Detail)
					}
					return nil
				}),
			},
		},
	}
}
