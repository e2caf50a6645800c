package system

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/models"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, _ := setupTestContext(t, false)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(ctx.Store.GetConfigPath()); err != nil {
		t.Errorf("database file was not created: %v", err)
	}

	cfg, err := config.Load(ctx.ConfigPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Database.DSN != ctx.Config.Database.DSN {
		t.Errorf("config DSN = %q, want %q", cfg.Database.DSN, ctx.Config.Database.DSN)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestContext(t, false)

	for i := 0; i < 2; i++ {
		if err := (&InitCmd{}).Run(ctx); err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
	}
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	ctx, _ := setupTestContext(t, false)
	if err := os.WriteFile(ctx.ConfigPath, []byte("timezone: UTC\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	data, _ := os.ReadFile(ctx.ConfigPath)
	if string(data) != "timezone: UTC\n" {
		t.Errorf("existing config was overwritten: %q", data)
	}
}

func TestInitCmd_Seed(t *testing.T) {
	ctx, out := setupTestContext(t, false)

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("init --seed failed: %v", err)
	}
	anchors, err := ctx.Store.GetAllAnchors(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(anchors) == 0 {
		t.Error("expected seeded anchors")
	}

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("second init --seed failed: %v", err)
	}
	if !strings.Contains(out.String(), "skipping seed data") {
		t.Errorf("expected skip message on second seed, got %q", out.String())
	}
	again, _ := ctx.Store.GetAllAnchors(context.Background())
	if len(again) != len(anchors) {
		t.Errorf("seed ran twice: %d anchors, want %d", len(again), len(anchors))
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	bg := context.Background()

	if _, err := ctx.Store.AddTag(bg, models.Tag{Name: "old", Color: "red", CreatedAt: ctx.Clock.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	tags, err := ctx.Store.GetAllTags(bg)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Errorf("expected an empty database after --force, got %d tags", len(tags))
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, out := setupTestContext(t, true)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("expected up to date message, got %q", out.String())
	}

	out.Reset()
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Fatalf("migrate --status failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 pending") {
		t.Errorf("expected no pending migrations, got %q", out.String())
	}
}
