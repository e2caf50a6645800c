package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/julianstephens/sanctuary/migrations"
)

// setupPostgresTestDB creates a test PostgreSQL database connection
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) (*sql.DB, func()) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	cleanup := func() {
		// Clean up test tables
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS test_users")
		db.Exec("DROP TABLE IF EXISTS test_posts")
		db.Close()
	}

	return db, cleanup
}

// TestPostgresSetVersion verifies the version insert is valid without ? placeholders
func TestPostgresSetVersion(t *testing.T) {
	db, cleanup := setupPostgresTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_users (id SERIAL PRIMARY KEY);",
	}))

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 3 {
		t.Errorf("version = %d, want 3", version)
	}
}

func TestPostgresApplyMigrationsIncremental(t *testing.T) {
	db, cleanup := setupPostgresTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_users.sql": "CREATE TABLE test_users (id SERIAL PRIMARY KEY);",
		"002_posts.sql": "CREATE TABLE test_posts (id SERIAL PRIMARY KEY, user_id INTEGER REFERENCES test_users(id));",
	}))
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
}

func TestPostgresEmbeddedSchemaApplies(t *testing.T) {
	db, cleanup := setupPostgresTestDB(t)
	defer cleanup()

	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}
	runner := NewRunner(db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	defer func() {
		for _, table := range []string{
			"anchor_completions", "anchors", "project_steps", "projects", "template_steps",
			"project_templates", "brain_dump_entries", "tags", "energy_logs",
			"daily_summaries", "streaks", "settings",
		} {
			db.Exec("DROP TABLE IF EXISTS " + table)
		}
	}()
}
