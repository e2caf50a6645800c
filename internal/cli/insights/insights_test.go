package insights

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/storage/sqlite"
	"github.com/julianstephens/sanctuary/internal/utils"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "sanctuary.db")
	store := sqlite.NewStore(cfg.Database.DSN)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &cli.Context{
		Config: cfg,
		Store:  store,
		Clock:  utils.FixedClock{T: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)},
		Out:    &out,
	}, &out
}

func TestStatusCmdSeeded(t *testing.T) {
	ctx, out := setupTestContext(t)
	if _, err := ctx.Service().Seed(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := (&StatusCmd{Thoughts: 2}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Anchors", "Week      2 / 35", "2 of 5 steps", "…and 1 more"} {
		if !strings.Contains(got, want) {
			t.Errorf("status output missing %q:\n%s", want, got)
		}
	}
}

func TestStatusCmdEmpty(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&StatusCmd{Thoughts: 5}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "Streak    0 day(s)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestSnapshotCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()
	svc := ctx.Service()

	if _, err := svc.LogEnergy(bg, models.LogEnergyRequest{Level: "low"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddBrainDump(bg, models.BrainDumpRequest{Text: "maybe paint the shed"}); err != nil {
		t.Fatal(err)
	}

	if err := (&SnapshotCmd{Note: "slow but steady"}).Run(ctx); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2026-03-11", "Thoughts: 1", "slow but steady"} {
		if !strings.Contains(got, want) {
			t.Errorf("snapshot output missing %q:\n%s", want, got)
		}
	}

	sum, err := svc.DailySummary(bg, "2026-03-11")
	if err != nil {
		t.Fatal(err)
	}
	if sum.DominantEnergy != "low" || sum.ReflectionNote != "slow but steady" {
		t.Errorf("unexpected stored summary: %+v", sum)
	}
}

func TestSnapshotCmdInvalidDate(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&SnapshotCmd{Date: "11/03/2026"}).Run(ctx); err == nil {
		t.Error("expected validation error for a malformed date")
	}
}
