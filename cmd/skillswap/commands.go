package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alphabot-ai/skillswap/internal/client"
	"github.com/alphabot-ai/skillswap/internal/model"

	"github.com/urfave/cli/v2"
)

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Generate a keypair, register, and authenticate (one command)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Display name (required the first time)"},
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "SkillSwap server URL"},
			&cli.StringFlag{Name: "email", Usage: "Contact email"},
			&cli.StringFlag{Name: "location", Usage: "Where you are"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadCLIConfig()
			name := c.String("name")
			if err != nil || (name != "" && name != cfg.Name) {
				if name == "" {
					return cli.Exit("--name is required for first-time registration", 1)
				}
				creds, err := client.GenerateCredentials(name)
				if err != nil {
					return fmt.Errorf("generate keypair: %w", err)
				}
				cfg = CLIConfig{
					BaseURL:    strings.TrimSuffix(c.String("url"), "/"),
					Name:       name,
					PublicKey:  creds.PublicKey,
					PrivateKey: creds.PrivateKeyBase64(),
				}
				if err := saveCLIConfig(cfg); err != nil {
					return fmt.Errorf("save config: %w", err)
				}
				fmt.Printf("✓ Generated keypair for '%s'\n", name)
			}

			creds, err := client.CredentialsFromKeys(cfg.Name, cfg.PublicKey, cfg.PrivateKey)
			if err != nil {
				return fmt.Errorf("load credentials: %w", err)
			}
			api := client.New(cfg.BaseURL)
			accountID, err := api.Register(creds, c.String("email"), c.String("location"))
			switch {
			case errors.Is(err, client.ErrAlreadyRegistered):
				fmt.Printf("✓ Already registered as '%s'\n", cfg.Name)
			case err != nil:
				return err
			default:
				fmt.Printf("✓ Registered '%s' (account %d)\n", cfg.Name, accountID)
			}

			if err := api.Authenticate(creds); err != nil {
				fmt.Printf("Warning: auto-auth failed: %v\nRun 'skillswap auth' to authenticate\n", err)
				return nil
			}
			if err := storeToken(cfg, api); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Printf("✓ Authenticated (expires %s)\n", api.TokenExp.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:    "auth",
		Aliases: []string{"login"},
		Usage:   "Re-authenticate (when the token expires)",
		Action: func(c *cli.Context) error {
			cfg, creds, api, err := loadClientWithCreds()
			if err != nil {
				return fmt.Errorf("%w\nRun 'skillswap register' first", err)
			}
			if err := api.Authenticate(creds); err != nil {
				return err
			}
			if err := storeToken(cfg, api); err != nil {
				return err
			}
			fmt.Printf("✓ Authenticated as '%s' (%s)\n", cfg.Name, api.Role)
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"whoami"},
		Usage:   "Show current profile and token status",
		Action: func(c *cli.Context) error {
			cfg, err := loadCLIConfig()
			if err != nil {
				fmt.Println("Not initialized. Run 'skillswap register --name <name>'")
				return nil
			}
			fmt.Printf("Profile: %s\n", cfg.Name)
			fmt.Printf("Server:  %s\n", cfg.BaseURL)
			if cfg.AccountID != 0 {
				fmt.Printf("Account: %d\n", cfg.AccountID)
			}
			if _, err := loadAuthenticatedClient(); err != nil {
				fmt.Printf("Token:   %v\n", err)
				return nil
			}
			fmt.Printf("Token:   valid until %s\n", cfg.TokenExp)
			return nil
		},
	}
}

func useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Aliases:   []string{"switch"},
		Usage:     "Switch to a different profile",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return cli.Exit("usage: skillswap use <name>", 1)
			}
			names, err := listProfiles()
			if err != nil {
				return err
			}
			for _, n := range names {
				if n == name {
					if err := setCurrentProfile(name); err != nil {
						return err
					}
					fmt.Printf("✓ Switched to '%s'\n", name)
					return nil
				}
			}
			return cli.Exit(fmt.Sprintf("profile '%s' not found", name), 1)
		},
	}
}

func profilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List local profiles",
		Action: func(c *cli.Context) error {
			names, err := listProfiles()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No profiles. Run 'skillswap register --name <name>'")
				return nil
			}
			current := getCurrentProfile()
			for _, n := range names {
				marker := "  "
				if n == current {
					marker = "* "
				}
				fmt.Println(marker + n)
			}
			return nil
		},
	}
}

func skillCommand() *cli.Command {
	return &cli.Command{
		Name:  "skill",
		Usage: "Manage and browse skills",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a skill you offer or want",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "type", Value: "offered", Usage: "offered or wanted"},
				},
				Action: func(c *cli.Context) error {
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					skill, err := api.AddSkill(c.String("name"), model.SkillType(c.String("type")))
					if err != nil {
						return err
					}
					fmt.Printf("✓ Added skill %d: %s (%s)\n", skill.ID, skill.Name, skill.Type)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete one of your skills",
				ArgsUsage: "<skill-id>",
				Action: func(c *cli.Context) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					if err := api.DeleteSkill(id); err != nil {
						return err
					}
					fmt.Printf("✓ Deleted skill %d\n", id)
					return nil
				},
			},
			{
				Name:  "browse",
				Usage: "Browse approved skills",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "offered or wanted"},
					&cli.StringFlag{Name: "q", Usage: "Name search"},
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadCLIConfig()
					if err != nil {
						return err
					}
					skills, err := client.New(cfg.BaseURL).BrowseSkills(model.SkillType(c.String("type")), c.String("q"), c.Int("limit"))
					if err != nil {
						return err
					}
					for _, s := range skills {
						fmt.Printf("[%d] %-24s %-8s by %s (%d)\n", s.ID, s.Name, s.Type, s.AccountName, s.AccountID)
					}
					return nil
				},
			},
		},
	}
}

func swapCommand() *cli.Command {
	return &cli.Command{
		Name:  "swap",
		Usage: "Propose and answer skill swaps",
		Subcommands: []*cli.Command{
			{
				Name:  "request",
				Usage: "Propose a swap to another member",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "to", Required: true, Usage: "Receiver account ID"},
					&cli.StringFlag{Name: "offer", Required: true},
					&cli.StringFlag{Name: "want", Required: true},
					&cli.StringFlag{Name: "message"},
				},
				Action: func(c *cli.Context) error {
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					swap, err := api.RequestSwap(c.Int64("to"), c.String("offer"), c.String("want"), c.String("message"))
					if err != nil {
						return err
					}
					fmt.Printf("✓ Swap %d sent to %s\n", swap.ID, swap.ReceiverName)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List swaps you sent or received",
				Action: func(c *cli.Context) error {
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					swaps, err := api.MySwaps()
					if err != nil {
						return err
					}
					printSwaps(swaps)
					return nil
				},
			},
			{
				Name:      "answer",
				Usage:     "Accept, reject or complete a swap you received",
				ArgsUsage: "<swap-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Required: true, Usage: "accepted, rejected or completed"},
				},
				Action: func(c *cli.Context) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					swap, err := api.AnswerSwap(id, model.SwapStatus(c.String("status")))
					if err != nil {
						return err
					}
					fmt.Printf("✓ Swap %d is now %s\n", swap.ID, swap.Status)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a swap you are part of",
				ArgsUsage: "<swap-id>",
				Action: func(c *cli.Context) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					api, err := loadAuthenticatedClient()
					if err != nil {
						return err
					}
					if err := api.DeleteSwap(id); err != nil {
						return err
					}
					fmt.Printf("✓ Deleted swap %d\n", id)
					return nil
				},
			},
		},
	}
}

func rateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Rate the other party of an accepted or completed swap",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "swap", Required: true},
			&cli.IntFlag{Name: "score", Required: true, Usage: "1 to 5"},
			&cli.StringFlag{Name: "comment"},
		},
		Action: func(c *cli.Context) error {
			api, err := loadAuthenticatedClient()
			if err != nil {
				return err
			}
			rating, err := api.Rate(c.Int64("swap"), c.Int("score"), c.String("comment"))
			if err != nil {
				return err
			}
			fmt.Printf("✓ Rated account %d with %d/5\n", rating.RatedID, rating.Score)
			return nil
		},
	}
}

func messagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "messages",
		Usage: "Show platform announcements",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 10},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadCLIConfig()
			if err != nil {
				return err
			}
			messages, err := client.New(cfg.BaseURL).Messages(c.Int("limit"))
			if err != nil {
				return err
			}
			for _, m := range messages {
				fmt.Printf("[%s] %s (%s)\n  %s\n", m.Type, m.Title, m.CreatedAt.Format("2006-01-02"), m.Body)
			}
			return nil
		},
	}
}

func printSwaps(swaps []model.SwapRequest) {
	if len(swaps) == 0 {
		fmt.Println("No swaps")
		return
	}
	for _, s := range swaps {
		fmt.Printf("[%d] %s -> %s: %s for %s (%s)\n", s.ID, s.SenderName, s.ReceiverName, s.SkillOffered, s.SkillRequested, s.Status)
	}
}
