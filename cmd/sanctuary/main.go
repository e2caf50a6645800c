package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/cli/backups"
	"github.com/julianstephens/sanctuary/internal/cli/braindump"
	"github.com/julianstephens/sanctuary/internal/cli/energy"
	"github.com/julianstephens/sanctuary/internal/cli/exports"
	"github.com/julianstephens/sanctuary/internal/cli/insights"
	"github.com/julianstephens/sanctuary/internal/cli/system"
	"github.com/julianstephens/sanctuary/internal/config"
	"github.com/julianstephens/sanctuary/internal/constants"
	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string   `help:"Config file path." type:"path" default:"${config_path}"`
	EnvFile  []string `help:"Dotenv files to load before reading the environment." default:".env"`
	Database string   `help:"SQLite path, PostgreSQL connection string without password, or 'keyring'. Overrides database.dsn."`
	Debug    bool     `help:"Log debug output to stderr."`

	Serve      system.ServeCmd         `cmd:"" help:"Run the HTTP API server." default:"1"`
	Init       system.InitCmd          `cmd:"" help:"Initialize sanctuary storage and config."`
	Migrate    system.MigrateCmd       `cmd:"" help:"Run database migrations."`
	Doctor     system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
	Status     insights.StatusCmd      `cmd:"" help:"Show today's sanctuary at a glance."`
	Energy     energy.EnergyCmd        `cmd:"" help:"Log or show your energy level."`
	Dump       braindump.DumpCmd       `cmd:"" help:"Capture a thought in the brain dump."`
	Categorize braindump.CategorizeCmd `cmd:"" help:"Show how a thought would be categorized."`
	Snapshot   insights.SnapshotCmd    `cmd:"" help:"Save the daily summary."`
	Export     exports.ExportCmd       `cmd:"" help:"Export all data as JSON or XLSX."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Energy-aware habit, project and brain dump tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	command := ctx.Command()

	cfg, err := config.Load(CLI.Config, CLI.EnvFile...)
	if err != nil {
		fail(err)
	}
	if CLI.Database != "" {
		cfg.Database.DSN = CLI.Database
		if !config.IsPostgresDSN(CLI.Database) && CLI.Database != config.KeyringDSN {
			cfg.Database.DSN = config.ExpandPath(CLI.Database)
		}
	}

	level := cfg.Log.Level
	if level == "" && strings.HasPrefix(command, "serve") && !cfg.Log.Debug && !CLI.Debug {
		level = "info"
	}
	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug || CLI.Debug,
		ConfigDir: cfg.DataDir,
		Level:     level,
		JSON:      cfg.Log.Format == "json",
		Stderr:    cfg.Log.Stderr,
	}); err != nil {
		fail(fmt.Errorf("failed to initialize logger: %w", err))
	}

	// Keyring management and categorize never touch the database
	if strings.HasPrefix(command, "keyring") || strings.HasPrefix(command, "categorize") {
		if err := ctx.Run(&cli.Context{Config: cfg, ConfigPath: CLI.Config, Out: os.Stdout}); err != nil {
			fail(err)
		}
		return
	}

	appCtx, err := cli.NewContext(cfg, CLI.Config)
	if err != nil {
		fail(err)
	}
	defer appCtx.Store.Close()

	// init creates the database and doctor reports on a broken one itself
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
		if err := appCtx.Store.Load(); err != nil {
			fail(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, apperrors.Format(err))
	os.Exit(1)
}
