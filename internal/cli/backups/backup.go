package backups

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sanctuary/internal/backup"
	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/lockfile"
)

var errPostgres = errors.New("backups are only managed for SQLite databases; use pg_dump for PostgreSQL")

// confirmFunc asks the user to approve a destructive action
var confirmFunc = func(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Restore").
		Negative("Cancel").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	return ok, err
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errPostgres
	}
	path, err := mgr.Create(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("%s Backup created: %s\n", cli.OKStyle.Render("✓"), filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errPostgres
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			cli.MutedStyle.Render(fmt.Sprintf("(%.1f KB)", float64(b.Size)/1024.0)),
		)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errPostgres
	}

	backupPath, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	lockPath := lockfile.Path(config.ExpandPath(ctx.Config.DataDir))
	if info, running, _ := lockfile.Status(lockPath); running {
		return fmt.Errorf("%w (pid %d); stop it before restoring", lockfile.ErrLocked, info.PID)
	}

	if !c.Yes {
		ok, err := confirmFunc(
			"Replace the current database with this backup?",
			fmt.Sprintf("Restore from %s.\nA safety copy of the current database is made first.", backupPath),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		ctx.Printf("%s failed to close database connection: %v\n", cli.WarnStyle.Render("Warning:"), err)
	}

	safety, err := mgr.Restore(context.Background(), backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println(cli.OKStyle.Render("✓ Database restored successfully!"))
	if safety != "" {
		ctx.Printf("  Previous database saved as %s\n", filepath.Base(safety))
	}
	return nil
}

// resolve finds the backup as given, relative to the working directory, or
// inside the backup directory
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if filepath.IsAbs(c.BackupFile) {
		if _, err := os.Stat(c.BackupFile); err != nil {
			return "", fmt.Errorf("backup file not found: %s", c.BackupFile)
		}
		return c.BackupFile, nil
	}
	if _, err := os.Stat(c.BackupFile); err == nil {
		return filepath.Abs(c.BackupFile)
	}
	candidate := filepath.Join(mgr.Dir(), c.BackupFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
}
