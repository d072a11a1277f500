package main

import (
	"fmt"
	"os"

	httpapp "github.com/alphabot-ai/skillswap/internal/http"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "skillswap",
		Usage:   "Skill exchange platform server and client",
		Version: httpapp.Version,
		Description: `Quick start:
   skillswap register --name ada --email ada@example.com
   skillswap skill add --name Go --type offered
   skillswap swap request --to 2 --offer Go --want Guitar

Environment variables (server):
   SKILLSWAP_CONFIG           YAML config file
   SKILLSWAP_ADDR             Listen address (default: :8080)
   SKILLSWAP_DB_DRIVER        sqlite or postgres (default: sqlite)
   SKILLSWAP_DB               SQLite path (default: skillswap.db)
   SKILLSWAP_DATABASE_URL     Postgres URL
   SKILLSWAP_REDIS_URL        Redis URL for shared rate limits
   SKILLSWAP_TOKEN_SECRET     JWT signing secret
   SKILLSWAP_TOKEN_TTL        Token lifetime (default: 24h)
   SKILLSWAP_CHALLENGE_TTL    Challenge lifetime (default: 5m)`,
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server"},
				Usage:   "Start the SkillSwap server (default if no command)",
				Action:  serveAction,
			},
			{
				Name:      "promote",
				Usage:     "Grant the admin role to an account (runs against the server database)",
				ArgsUsage: "<account-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "revoke", Usage: "Demote back to a regular member"},
				},
				Action: promoteAction,
			},
			registerCommand(),
			authCommand(),
			statusCommand(),
			useCommand(),
			profilesCommand(),
			skillCommand(),
			swapCommand(),
			rateCommand(),
			messagesCommand(),
			adminCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
