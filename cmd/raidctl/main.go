package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hugh/raid-finder/pkg/config"
	"github.com/hugh/raid-finder/pkg/util"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctl struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (c *ctl) load(*cli.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg
	c.logger = util.NewLogger(cfg.Server.Env)
	slog.SetDefault(c.logger)
	return nil
}

func newApp() *cli.App {
	c := &ctl{}

	app := cli.NewApp()
	app.Name = "raidctl"
	app.Usage = "Manage the raid-finder database"
	app.Action = cli.ShowAppHelp
	app.Before = c.load
	app.Commands = []*cli.Command{
		{
			Name:     "db",
			Usage:    "Create, drop, seed and migrate the database",
			Category: "Database",
			Subcommands: []*cli.Command{
				{
					Name:   "create",
					Usage:  "Create every table",
					Action: c.create,
				},
				{
					Name:   "drop",
					Usage:  "Drop every table",
					Action: c.drop,
				},
				{
					Name:  "seed",
					Usage: "Fill the database with random users, characters, jobs and an event",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "users", Aliases: []string{"n"}, Value: 10, Usage: "number of users"},
						&cli.Int64Flag{Name: "seed", Usage: "random seed; 0 picks one"},
					},
					Action: c.seed,
				},
				{
					Name:  "migrate",
					Usage: "Apply or roll back the postgres SQL migrations",
					Subcommands: []*cli.Command{
						{
							Name:   "up",
							Usage:  "Apply every pending migration",
							Action: c.migrateUp,
						},
						{
							Name:   "down",
							Usage:  "Roll back migrations",
							Flags:  []cli.Flag{&cli.IntFlag{Name: "steps", Value: 1, Usage: "migrations to roll back"}},
							Action: c.migrateDown,
						},
					},
				},
			},
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "raidctl:", err)
		os.Exit(1)
	}
}
