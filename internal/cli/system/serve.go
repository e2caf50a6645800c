package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/sanctuary/internal/api"
	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/jobs"
	"github.com/julianstephens/sanctuary/internal/lockfile"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/metrics"
	"github.com/julianstephens/sanctuary/internal/service"
)

type ServeCmd struct {
	Addr   string `help:"Listen address, overrides server.addr."`
	NoJobs bool   `help:"Do not run scheduled summary and backup jobs."`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	addr := cmd.Addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if ctx.IsSQLite() {
		lock, err := lockfile.Acquire(lockfile.Path(config.ExpandPath(cfg.DataDir)), addr)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release server lock", "error", err)
			}
		}()
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	svc := ctx.Service(service.WithMetrics(m))

	bg := context.Background()
	if streak, err := svc.Streak(bg); err == nil {
		m.SetStreak(streak.CurrentStreak, streak.LongestStreak)
	}

	app := api.New(svc, api.Config{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		BodyLimitKB:        cfg.Server.BodyLimitKB,
		AccessLog:          true,
	}, reg)

	if !cmd.NoJobs {
		runner, err := jobs.New(svc, ctx.Backups(), m, jobs.Config{
			DailySummary: cfg.Jobs.DailySummary,
			Backup:       cfg.Jobs.Backup,
		})
		if err != nil {
			return err
		}
		runner.Start()
		defer func() {
			if err := runner.Stop(); err != nil {
				logger.Warn("Failed to stop scheduler", "error", err)
			}
		}()
	}

	sigCtx, stop := signal.NotifyContext(bg, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	logger.Info("Server started", "addr", addr, "database", ctx.Store.GetConfigPath(), "timezone", cfg.Timezone)
	ctx.Printf("%s listening on %s\n", cli.TitleStyle.Render(constants.AppName), addr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
