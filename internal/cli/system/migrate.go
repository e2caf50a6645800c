package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/storage"
)

type MigrateCmd struct {
	Status bool `help:"Only report the current and latest schema versions."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	status, err := migrator.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if c.Status {
		ctx.Printf("Schema version %d of %d (%d pending)\n", status.Current, status.Latest, status.Pending())
		return nil
	}

	// Snapshot SQLite databases before changing the schema
	if status.Pending() > 0 {
		ctx.PerformAutomaticBackup(context.Background())
	}

	count, err := migrator.Migrate(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
