package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sanctuary/migrations"
)

// setupTestMigrations builds an in-memory migration filesystem from name -> SQL
func setupTestMigrations(t *testing.T, files map[string]string) fs.FS {
	t.Helper()
	mfs := fstest.MapFS{}
	for name, content := range files {
		mfs[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return mfs
}

func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		wantCount int
		wantErr   string
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"002_second.sql": "SELECT 1;",
				"001_first.sql":  "SELECT 1;",
				"README.md":      "ignored",
			},
			wantCount: 2,
		},
		{
			name:    "missing underscore",
			files:   map[string]string{"001.sql": "SELECT 1;"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non numeric version",
			files:   map[string]string{"abc_init.sql": "SELECT 1;"},
			wantErr: "invalid version number",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_a.sql": "SELECT 1;",
				"01_b.sql":  "SELECT 1;",
			},
			wantErr: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, setupTestMigrations(t, tt.files))
			got, err := runner.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ReadMigrationFiles() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles() error = %v", err)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("ReadMigrationFiles() returned %d migrations, want %d", len(got), tt.wantCount)
			}
			if got[0].Version != 1 || got[0].Name != "first" {
				t.Errorf("first migration = %+v, want version 1 named first", got[0])
			}
		})
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupSQLiteTestDB(t)

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_users.sql": "CREATE TABLE test_users (id INTEGER PRIMARY KEY);",
	}))
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	runner = NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_users.sql": "CREATE TABLE test_users (id INTEGER PRIMARY KEY);",
		"002_posts.sql": "CREATE TABLE test_posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))
	var messages []string
	applied, err = runner.ApplyMigrations(func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if len(messages) == 0 {
		t.Error("expected progress messages")
	}

	status, err := runner.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status.Current != 2 || status.Latest != 2 || status.Pending() != 0 {
		t.Errorf("GetStatus() = %+v", status)
	}

	applied, err = runner.ApplyMigrations(nil)
	if err != nil || applied != 0 {
		t.Errorf("re-running ApplyMigrations() = %d, %v; want 0, nil", applied, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupSQLiteTestDB(t)

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_ok.sql":     "CREATE TABLE ok_table (id INTEGER PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER PRIMARY KEY); THIS IS NOT SQL;",
	}))
	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("ApplyMigrations() should fail on invalid SQL")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed migration 2", version)
	}
}

func TestValidateVersionRejectsNewerDatabase(t *testing.T) {
	db := setupSQLiteTestDB(t)
	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "SELECT 1;",
	}))

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v, want newer-than-supported", err)
	}

	status, err := runner.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 for a newer database", status.Pending())
	}
}

func TestEmbeddedSQLiteSchemaApplies(t *testing.T) {
	db := setupSQLiteTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}

	runner := NewRunner(db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}

	for _, table := range []string{
		"energy_logs", "anchors", "anchor_completions", "project_templates",
		"template_steps", "projects", "project_steps", "tags",
		"brain_dump_entries", "daily_summaries", "streaks", "settings",
	} {
		var n int
		err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n)
		if err != nil || n != 1 {
			t.Errorf("table %s missing (n=%d, err=%v)", table, n, err)
		}
	}
}
