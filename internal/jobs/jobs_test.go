package jobs

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/julianstephens/sanctuary/internal/backup"
	"github.com/julianstephens/sanctuary/internal/metrics"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/service"
	"github.com/julianstephens/sanctuary/internal/storage/sqlite"
	"github.com/julianstephens/sanctuary/internal/utils"
)

func setupTestRunner(t *testing.T, cfg Config, withBackups bool) (*Runner, *service.Service, *backup.Manager) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "sanctuary.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := utils.FixedClock{T: time.Date(2026, 3, 11, 23, 55, 0, 0, time.UTC)}
	m := metrics.New(nil)
	svc := service.New(store, clock, service.WithMetrics(m))

	var mgr *backup.Manager
	if withBackups {
		mgr = backup.NewManager(dbPath)
	}
	r, err := New(svc, mgr, m, cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Stop() })
	return r, svc, mgr
}

func TestNewRegistersJobs(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		withBackups bool
		want        []string
	}{
		{"both", Config{DailySummary: "55 23 * * *", Backup: "0 3 * * *"}, true, []string{JobBackup, JobDailySummary}},
		{"backup without manager", Config{DailySummary: "55 23 * * *", Backup: "0 3 * * *"}, false, []string{JobDailySummary}},
		{"disabled", Config{}, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := setupTestRunner(t, tt.cfg, tt.withBackups)
			got := r.Names()
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("expected jobs %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected jobs %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestNewInvalidCron(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sanctuary.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	svc := service.New(store, utils.FixedClock{T: time.Now()})
	if _, err := New(svc, nil, nil, Config{DailySummary: "every night"}); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestRunDailySummary(t *testing.T) {
	r, svc, _ := setupTestRunner(t, Config{}, false)
	ctx := context.Background()

	if _, err := svc.AddBrainDump(ctx, models.BrainDumpRequest{Text: "remember the keys"}); err != nil {
		t.Fatal(err)
	}
	r.run(JobDailySummary, r.RunDailySummary)

	sum, err := svc.DailySummary(ctx, "2026-03-11")
	if err != nil {
		t.Fatalf("DailySummary() failed: %v", err)
	}
	if sum.ThoughtsCaught != 1 {
		t.Errorf("expected 1 thought captured, got %d", sum.ThoughtsCaught)
	}
	if n := testutil.ToFloat64(r.metrics.JobRuns.WithLabelValues(JobDailySummary, "success")); n != 1 {
		t.Errorf("expected 1 successful run recorded, got %v", n)
	}
}

func TestRunBackup(t *testing.T) {
	r, _, mgr := setupTestRunner(t, Config{}, true)

	if err := r.RunBackup(context.Background()); err != nil {
		t.Fatalf("RunBackup() failed: %v", err)
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}
