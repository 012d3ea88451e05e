package main

import (
	"fmt"

	"github.com/hugh/raid-finder/internal/database"
	"github.com/hugh/raid-finder/internal/seed"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/pkg/config"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

// withDB opens the configured database for the length of fn.
func (c *ctl) withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Connect(&c.cfg.Database, c.cfg.Server.Env, c.logger)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func (c *ctl) create(cctx *cli.Context) error {
	return c.withDB(func(db *gorm.DB) error {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
		fmt.Fprintln(cctx.App.Writer, "Database created.")
		return nil
	})
}

func (c *ctl) drop(cctx *cli.Context) error {
	return c.withDB(func(db *gorm.DB) error {
		if err := database.DropAll(db); err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, "Database dropped.")
		return nil
	})
}

func (c *ctl) seed(cctx *cli.Context) error {
	return c.withDB(func(db *gorm.DB) error {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
		res, err := seed.New(store.New(db), c.logger).Run(cctx.Context, seed.Options{
			Users: cctx.Int("users"),
			Seed:  cctx.Int64("seed"),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cctx.App.Writer, "Seeded %d users, %d characters, %d jobs and event %s (%d on the roster).\n",
			res.Users, res.Characters, res.Jobs, res.Event.ID, res.RosterEntries)
		fmt.Fprintf(cctx.App.Writer, "Every user signs in with password %q.\n", seed.Password)
		return nil
	})
}

func (c *ctl) requirePostgres() error {
	if c.cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("SQL migrations need DATABASE_DRIVER=%s, got %s; use \"db create\" instead", config.DriverPostgres, c.cfg.Database.Driver)
	}
	return nil
}

func (c *ctl) migrateUp(*cli.Context) error {
	if err := c.requirePostgres(); err != nil {
		return err
	}
	return c.withDB(func(db *gorm.DB) error {
		return database.MigrateUp(db, c.logger)
	})
}

func (c *ctl) migrateDown(cctx *cli.Context) error {
	if err := c.requirePostgres(); err != nil {
		return err
	}
	return c.withDB(func(db *gorm.DB) error {
		return database.MigrateDown(db, cctx.Int("steps"), c.logger)
	})
}
