package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/storage/sqlite"
	"github.com/julianstephens/sanctuary/internal/utils"
)

// setupTestContext returns a context over a fresh SQLite path in a temp dir.
// The database is initialized when initialize is set.
func setupTestContext(t *testing.T, initialize bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Timezone = "UTC"
	cfg.Database.DSN = filepath.Join(dir, "sanctuary.db")

	store := sqlite.NewStore(cfg.Database.DSN)
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &cli.Context{
		Config:     cfg,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Store:      store,
		Clock:      utils.FixedClock{T: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)},
		Out:        &out,
	}, &out
}
