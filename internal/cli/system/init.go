package system

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
)

type InitCmd struct {
	Force bool `help:"Delete the existing SQLite database before initializing."`
	Seed  bool `help:"Add the default anchors, sunroom project, tags and sample thoughts."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return errors.New("--force only applies to SQLite databases")
		}
		if err := c.removeDatabase(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized sanctuary storage at: %s\n", ctx.Store.GetConfigPath())

	if err := writeConfigIfMissing(ctx); err != nil {
		return err
	}

	if c.Seed {
		seeded, err := ctx.Service().Seed(context.Background())
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		if seeded {
			ctx.Println("Added default anchors, the sunroom project, tags and sample thoughts.")
		} else {
			ctx.Println("Database already has anchors; skipping seed data.")
		}
	}
	return nil
}

func (c *InitCmd) removeDatabase(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Close first so the file is not held open
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func writeConfigIfMissing(ctx *cli.Context) error {
	if ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); err == nil {
		return nil
	}
	if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
		return err
	}
	ctx.Printf("Wrote config file: %s\n", ctx.ConfigPath)
	return nil
}
