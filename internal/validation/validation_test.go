package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

func cleanExport() models.Export {
	done := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return models.Export{
		EnergyLogs: []models.EnergyLog{{ID: 1, Level: constants.EnergyHigh}},
		Anchors:    []models.Anchor{{ID: 1, Label: "Hydrate"}},
		AnchorCompletions: []models.AnchorCompletion{
			{ID: 1, AnchorID: 1, CompletedDate: "2026-03-03"},
			{ID: 2, AnchorID: 1, CompletedDate: "2026-03-04"},
		},
		Projects: []models.Project{{ID: 1, Name: "Sunroom"}},
		ProjectSteps: []models.ProjectStep{
			{ID: 1, ProjectID: 1, Title: "Clear", Effort: constants.EffortQuick, Completed: true, CompletedAt: &done},
			{ID: 2, ProjectID: 1, Title: "Paint", Effort: constants.EffortHeavy},
		},
		Tags:           []models.Tag{{ID: 1, Name: "home"}, {ID: 2, Name: "garden"}},
		BrainDump:      []models.BrainDumpEntry{{ID: 1, Text: "x", Category: constants.CategoryIdea}, {ID: 2, Text: "y"}},
		DailySummaries: []models.DailySummary{{ID: 1, Date: "2026-03-03"}},
		Streak:         models.Streak{CurrentStreak: 2, LongestStreak: 5, LastActiveDate: "2026-03-04"},
		Settings:       models.Settings{WeeklyTarget: 35, CurrentEnergyLevel: constants.EnergyMedium},
	}
}

func TestValidateData_Clean(t *testing.T) {
	result := New().ValidateData(cleanExport())
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got: %s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateData_DetectsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Export)
		want   ConflictType
	}{
		{
			name: "duplicate completion",
			mutate: func(e *models.Export) {
				e.AnchorCompletions = append(e.AnchorCompletions, models.AnchorCompletion{ID: 3, AnchorID: 1, CompletedDate: "2026-03-04"})
			},
			want: ConflictDuplicateCompletion,
		},
		{
			name: "completion for deleted anchor",
			mutate: func(e *models.Export) {
				e.AnchorCompletions[0].AnchorID = 42
			},
			want: ConflictDanglingReference,
		},
		{
			name: "completion with bad date",
			mutate: func(e *models.Export) {
				e.AnchorCompletions[0].CompletedDate = "03/03/2026"
			},
			want: ConflictInvalidDateTime,
		},
		{
			name: "current above longest",
			mutate: func(e *models.Export) {
				e.Streak.CurrentStreak = 9
			},
			want: ConflictStreakInvariant,
		},
		{
			name: "bad last active date",
			mutate: func(e *models.Export) {
				e.Streak.LastActiveDate = "yesterday"
			},
			want: ConflictInvalidDateTime,
		},
		{
			name: "unknown energy level",
			mutate: func(e *models.Export) {
				e.EnergyLogs[0].Level = "wired"
			},
			want: ConflictInvalidEnum,
		},
		{
			name: "unknown category",
			mutate: func(e *models.Export) {
				e.BrainDump[0].Category = "rant"
			},
			want: ConflictInvalidEnum,
		},
		{
			name: "completed step without timestamp",
			mutate: func(e *models.Export) {
				e.ProjectSteps[1].Completed = true
			},
			want: ConflictStepCompletion,
		},
		{
			name: "step for missing project",
			mutate: func(e *models.Export) {
				e.ProjectSteps[0].ProjectID = 7
			},
			want: ConflictDanglingReference,
		},
		{
			name: "duplicate tag name",
			mutate: func(e *models.Export) {
				e.Tags = append(e.Tags, models.Tag{ID: 3, Name: "home"})
			},
			want: ConflictDuplicateTagName,
		},
		{
			name: "summary with bad date",
			mutate: func(e *models.Export) {
				e.DailySummaries[0].Date = "2026-13-01"
			},
			want: ConflictInvalidDateTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := cleanExport()
			tt.mutate(&data)
			result := New().ValidateData(data)
			if result.Count(tt.want) != 1 {
				t.Errorf("Expected one %s conflict, got: %s", tt.want, result.FormatReport())
			}
			if len(result.Conflicts) != 1 {
				t.Errorf("Expected exactly one conflict, got %d: %s", len(result.Conflicts), result.FormatReport())
			}
		})
	}
}

func TestAutoFixStreak(t *testing.T) {
	data := cleanExport()
	data.Streak = models.Streak{CurrentStreak: 6, LongestStreak: 4}
	result := New().ValidateData(data)

	var saved models.Streak
	actions := AutoFixStreak(result.Conflicts, data.Streak, func(s models.Streak) error {
		saved = s
		return nil
	})
	if len(actions) != 1 {
		t.Fatalf("Expected 1 fix action, got %d", len(actions))
	}
	if saved.CurrentStreak != 6 || saved.LongestStreak != 6 {
		t.Errorf("saved streak = %+v, want 6/6", saved)
	}

	failing := AutoFixStreak(result.Conflicts, data.Streak, func(models.Streak) error {
		return errors.New("read-only database")
	})
	if len(failing) != 1 || !strings.Contains(failing[0].Action, "Failed") {
		t.Errorf("Expected a failed fix action, got %+v", failing)
	}
}
