package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/sanctuary/internal/backup"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/keyring"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/service"
	"github.com/julianstephens/sanctuary/internal/storage"
	"github.com/julianstephens/sanctuary/internal/storage/postgres"
	"github.com/julianstephens/sanctuary/internal/storage/sqlite"
	"github.com/julianstephens/sanctuary/internal/utils"
)

type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Clock      utils.Clock
	Out        io.Writer
}

// NewContext builds the command context for cfg. The store is created but not
// opened; commands call Load or Init themselves.
func NewContext(cfg *config.Config, configPath string) (*Context, error) {
	store, err := NewStore(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	clock, err := utils.NewSystemClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		Clock:      clock,
		Out:        os.Stdout,
	}, nil
}

// NewStore picks the storage backend for dsn. The literal "keyring" is
// resolved through the OS keyring first. PostgreSQL connection strings must
// not embed a password.
func NewStore(dsn string) (storage.Provider, error) {
	resolved, err := keyring.ResolveDSN(dsn)
	if err != nil {
		return nil, err
	}
	if !config.IsPostgresDSN(resolved) {
		return sqlite.NewStore(resolved), nil
	}

	// Secrets coming from the keyring or the environment may carry a password
	if dsn != config.KeyringDSN {
		if _, err := postgres.ValidateConnString(resolved); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store it with 'sanctuary keyring set' or use .pgpass", err)
			}
			return nil, err
		}
	}
	return postgres.New(resolved), nil
}

// Service builds the application service over the context's store
func (c *Context) Service(opts ...service.Option) *service.Service {
	opts = append([]service.Option{service.WithPatternDays(c.Config.Insights.PatternDays)}, opts...)
	return service.New(c.Store, c.Clock, opts...)
}

// IsSQLite reports whether the store is a local SQLite file
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// Backups returns the backup manager for SQLite stores and nil otherwise
func (c *Context) Backups() *backup.Manager {
	if !c.IsSQLite() {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates a backup and only logs failures
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr := c.Backups()
	if mgr == nil {
		return
	}
	if _, err := mgr.Create(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Writer is where command output goes, stdout unless Out is set
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
