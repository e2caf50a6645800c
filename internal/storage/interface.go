package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/julianstephens/sanctuary/internal/migration"
	"github.com/julianstephens/sanctuary/internal/models"
)

// Migrator is implemented by providers backed by versioned SQL migrations
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
}

// Provider is the persistence boundary. Implementations must return an error
// wrapping errors.ErrNotFound for missing records and errors.ErrConflict for
// uniqueness violations the caller can act on.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Energy
	AddEnergyLog(ctx context.Context, log models.EnergyLog) (models.EnergyLog, error)
	// GetEnergyLogs returns logs with from <= logged_at < to, oldest first.
	// A zero bound is treated as open.
	GetEnergyLogs(ctx context.Context, from, to time.Time) ([]models.EnergyLog, error)
	GetLatestEnergyLog(ctx context.Context) (models.EnergyLog, error)

	// Anchors
	AddAnchor(ctx context.Context, anchor models.Anchor) (models.Anchor, error)
	GetAnchor(ctx context.Context, id int64) (models.Anchor, error)
	GetAllAnchors(ctx context.Context) ([]models.Anchor, error)
	DeleteAnchor(ctx context.Context, id int64) error

	// Anchor Completions
	// AddAnchorCompletion inserts a completion unless one exists for the same
	// anchor and date. It reports whether a row was inserted.
	AddAnchorCompletion(ctx context.Context, completion models.AnchorCompletion) (bool, error)
	// RemoveAnchorCompletion deletes the completion for anchor on date and
	// reports whether one existed.
	RemoveAnchorCompletion(ctx context.Context, anchorID int64, date string) (bool, error)
	GetAnchorCompletionsForDate(ctx context.Context, date string) ([]models.AnchorCompletion, error)
	// CountAnchorCompletions counts completions with fromDate <= completed_date <= toDate
	CountAnchorCompletions(ctx context.Context, fromDate, toDate string) (int, error)

	// Templates
	AddTemplate(ctx context.Context, template models.ProjectTemplate) (models.ProjectTemplate, error)
	GetTemplate(ctx context.Context, id int64) (models.ProjectTemplate, error)
	GetAllTemplates(ctx context.Context) ([]models.ProjectTemplate, error)
	AddTemplateStep(ctx context.Context, step models.TemplateStep) (models.TemplateStep, error)
	GetTemplateSteps(ctx context.Context, templateID int64) ([]models.TemplateStep, error)

	// Projects
	AddProject(ctx context.Context, project models.Project) (models.Project, error)
	// AddProjectFromTemplate creates the project and copies the template's
	// steps into it atomically.
	AddProjectFromTemplate(ctx context.Context, project models.Project, templateID int64) (models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	GetProjects(ctx context.Context, activeOnly bool) ([]models.Project, error)
	CompleteProject(ctx context.Context, id int64, at time.Time) (models.Project, error)

	// Project Steps
	AddProjectStep(ctx context.Context, step models.ProjectStep) (models.ProjectStep, error)
	GetProjectStep(ctx context.Context, id int64) (models.ProjectStep, error)
	GetProjectSteps(ctx context.Context, projectID int64) ([]models.ProjectStep, error)
	// ToggleProjectStep flips completed, stamping or clearing completed_at
	ToggleProjectStep(ctx context.Context, id int64, at time.Time) (models.ProjectStep, error)
	ReorderProjectSteps(ctx context.Context, projectID int64, stepIDs []int64) error
	// CountCompletedSteps counts completed steps with from <= completed_at < to
	CountCompletedSteps(ctx context.Context, from, to time.Time) (int, error)

	// Tags
	AddTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	GetAllTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	// Brain Dump
	AddBrainDumpEntry(ctx context.Context, entry models.BrainDumpEntry) (models.BrainDumpEntry, error)
	GetBrainDumpEntry(ctx context.Context, id int64) (models.BrainDumpEntry, error)
	// GetBrainDumpEntries returns matching entries, newest first
	GetBrainDumpEntries(ctx context.Context, filter models.BrainDumpFilter) ([]models.BrainDumpEntry, error)
	UpdateBrainDumpEntry(ctx context.Context, entry models.BrainDumpEntry) (models.BrainDumpEntry, error)
	ArchiveBrainDumpEntry(ctx context.Context, id int64, at time.Time) error
	DeleteBrainDumpEntry(ctx context.Context, id int64) error

	// Daily Summaries
	SaveDailySummary(ctx context.Context, summary models.DailySummary) (models.DailySummary, error)
	GetDailySummary(ctx context.Context, date string) (models.DailySummary, error)
	GetDailySummaries(ctx context.Context, fromDate, toDate string) ([]models.DailySummary, error)

	// Streak
	// GetStreak returns the singleton, creating it as {0, 0, unset} when absent
	GetStreak(ctx context.Context) (models.Streak, error)
	SaveStreak(ctx context.Context, streak models.Streak) error
	// UpdateStreak runs fn on the current streak and persists its result in
	// one transaction.
	UpdateStreak(ctx context.Context, fn func(models.Streak) (models.Streak, bool)) (models.Streak, error)

	// Settings
	// GetSettings returns the singleton, creating it with defaults when absent
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Bulk Retrieval for Export
	GetAllAnchorCompletions(ctx context.Context) ([]models.AnchorCompletion, error)
	GetAllTemplateSteps(ctx context.Context) ([]models.TemplateStep, error)
	GetAllProjectSteps(ctx context.Context) ([]models.ProjectStep, error)

	// Utils
	GetConfigPath() string
	GetDB() *sql.DB
}
