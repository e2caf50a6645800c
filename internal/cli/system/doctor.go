package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/lockfile"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/storage"
	"github.com/julianstephens/sanctuary/internal/utils"
	"github.com/julianstephens/sanctuary/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair a broken streak invariant."`
}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(context.Context, *cli.Context) error
}

// errSkipped marks a check that does not apply to the current backend
var errSkipped = errors.New("not applicable")

func (cmd *DoctorCmd) checks() []check {
	return []check{
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Data validation", needsDB: true, run: cmd.checkValidation},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Timestamp integrity", needsDB: true, run: checkTimestampIntegrity},
		{name: "Server lock", warnOnly: true, run: checkServerLock},
	}
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println(cli.TitleStyle.Render("Running diagnostics..."))
	ctx.Println()

	bg := context.Background()
	hasError := false

	dbReachable := true
	if err := checkDBReachable(bg, ctx); err != nil {
		report(ctx, "Database reachable", err, false)
		hasError = true
		dbReachable = false
	} else {
		report(ctx, "Database reachable", nil, false)
	}

	for _, c := range cmd.checks() {
		if c.needsDB && !dbReachable {
			ctx.Printf("%s %s: SKIPPED (database not reachable)\n", cli.MutedStyle.Render("⊘"), c.name)
			continue
		}
		err := c.run(bg, ctx)
		if errors.Is(err, errSkipped) {
			ctx.Printf("%s %s: SKIPPED (%v)\n", cli.MutedStyle.Render("⊘"), c.name, err)
			continue
		}
		report(ctx, c.name, err, c.warnOnly)
		if err != nil && !c.warnOnly {
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println(cli.FailStyle.Render("Diagnostics completed with errors."))
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println(cli.OKStyle.Render("All diagnostics passed!"))
	return nil
}

func report(ctx *cli.Context, name string, err error, warnOnly bool) {
	switch {
	case err == nil:
		ctx.Printf("%s %s: OK\n", cli.OKStyle.Render("✓"), name)
	case warnOnly:
		ctx.Printf("%s %s: WARNING\n", cli.WarnStyle.Render("⚠"), name)
		ctx.Printf("   %v\n", err)
	default:
		ctx.Printf("%s %s: FAIL\n", cli.FailStyle.Render("❌"), name)
		ctx.Printf("   Error: %v\n", err)
	}
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	db := ctx.Store.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRowContext(bg, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func migrationStatus(ctx *cli.Context) (int, int, error) {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, 0, errSkipped
	}
	status, err := migrator.MigrationStatus()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return status.Current, status.Latest, nil
}

func checkSchemaVersion(_ context.Context, ctx *cli.Context) error {
	current, latest, err := migrationStatus(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(_ context.Context, ctx *cli.Context) error {
	current, latest, err := migrationStatus(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'sanctuary migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return fmt.Errorf("%w: PostgreSQL backups are managed by the server", errSkipped)
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'sanctuary backup create'")
	}
	return nil
}

func (cmd *DoctorCmd) checkValidation(bg context.Context, ctx *cli.Context) error {
	svc := ctx.Service()
	data, err := svc.Export(bg)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	result := validation.New().ValidateData(data)
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix && result.Count(validation.ConflictStreakInvariant) > 0 {
		actions := validation.AutoFixStreak(result.Conflicts, data.Streak, func(s models.Streak) error {
			s.UpdatedAt = svc.Clock().Now().UTC().Truncate(time.Millisecond)
			return ctx.Store.SaveStreak(bg, s)
		})
		for _, a := range actions {
			ctx.Printf("   fixed: %s\n", a.Action)
		}
		data, err = svc.Export(bg)
		if err != nil {
			return err
		}
		result = validation.New().ValidateData(data)
		if !result.HasConflicts() {
			return nil
		}
	}
	return errors.New(result.FormatReport())
}

func checkClockTimezone(_ context.Context, ctx *cli.Context) error {
	now, err := utils.NowInTimezone(ctx.Config.Timezone)
	if err != nil {
		return fmt.Errorf("configured timezone cannot be loaded: %w", err)
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// timestampColumns lists required timestamp columns; an empty value means a
// row was written outside the application
var timestampColumns = []struct{ table, column string }{
	{"energy_logs", "logged_at"},
	{"anchors", "created_at"},
	{"anchor_completions", "completed_at"},
	{"projects", "created_at"},
	{"brain_dump_entries", "created_at"},
	{"tags", "created_at"},
}

func checkTimestampIntegrity(bg context.Context, ctx *cli.Context) error {
	db := ctx.Store.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	for _, tc := range timestampColumns {
		var n int
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL OR %s = ''", tc.table, tc.column, tc.column)
		if err := db.QueryRowContext(bg, q).Scan(&n); err != nil {
			return fmt.Errorf("failed to check %s timestamps: %w", tc.table, err)
		}
		if n > 0 {
			return fmt.Errorf("found %d %s rows with a missing %s", n, tc.table, tc.column)
		}
	}
	return nil
}

func checkServerLock(_ context.Context, ctx *cli.Context) error {
	path := lockfile.Path(config.ExpandPath(ctx.Config.DataDir))
	info, running, err := lockfile.Status(path)
	if err != nil {
		return fmt.Errorf("lock file %s is unreadable and will be replaced on next start: %v", path, err)
	}
	switch {
	case running:
		ctx.Printf("   server running (pid %d on %s)\n", info.PID, info.Addr)
	case info.PID != 0:
		return fmt.Errorf("stale lock from pid %d will be replaced on next start", info.PID)
	}
	return nil
}
