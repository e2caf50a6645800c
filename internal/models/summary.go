package models

import (
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
)

// DailySummary is a persisted end-of-day snapshot
type DailySummary struct {
	ID             int64                 `json:"id"`
	Date           string                `json:"date"` // YYYY-MM-DD format
	DominantEnergy constants.EnergyLevel `json:"dominant_energy,omitempty"`
	AnchorsDone    int                   `json:"anchors_completed"`
	TasksDone      int                   `json:"tasks_completed"`
	ThoughtsCaught int                   `json:"thoughts_captured"`
	ReflectionNote string                `json:"reflection_note,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// MomentumData is the derived progress summary
type MomentumData struct {
	CompletedToday   int `json:"completed_today"`
	WeeklyCompletion int `json:"weekly_completion"`
	WeeklyTarget     int `json:"weekly_target"`
	Streak           int `json:"streak"`
}

// WeeklyReflection summarizes one Sunday-to-Saturday week
type WeeklyReflection struct {
	WeekStart        string          `json:"week_start"`
	WeekEnd          string          `json:"week_end"`
	AnchorsCompleted int             `json:"anchors_completed"`
	TasksCompleted   int             `json:"tasks_completed"`
	ThoughtsCaptured int             `json:"thoughts_captured"`
	EnergyPatterns   []EnergyPattern `json:"energy_patterns"`
	TopTags          []TagCount      `json:"top_tags"`
	Streak           int             `json:"streak"`
}

// Dashboard is the combined view served to the home screen
type Dashboard struct {
	Energy        constants.EnergyLevel `json:"energy"`
	Anchors       []AnchorStatus        `json:"anchors"`
	ActiveProject *ProjectWithSteps     `json:"active_project,omitempty"`
	BrainDump     []BrainDumpEntry      `json:"brain_dump"`
	Momentum      MomentumData          `json:"momentum"`
}

// Export is a full dump of user data
type Export struct {
	ID                string             `json:"export_id"`
	ExportedAt        time.Time          `json:"exported_at"`
	Version           string             `json:"version"`
	EnergyLogs        []EnergyLog        `json:"energy_logs"`
	Anchors           []Anchor           `json:"anchors"`
	AnchorCompletions []AnchorCompletion `json:"anchor_completions"`
	Templates         []ProjectTemplate  `json:"project_templates"`
	TemplateSteps     []TemplateStep     `json:"template_steps"`
	Projects          []Project          `json:"projects"`
	ProjectSteps      []ProjectStep      `json:"project_steps"`
	Tags              []Tag              `json:"tags"`
	BrainDump         []BrainDumpEntry   `json:"brain_dump_entries"`
	DailySummaries    []DailySummary     `json:"daily_summaries"`
	Streak            Streak             `json:"streak"`
	Settings          Settings           `json:"settings"`
}
