// Package storagetest holds the behavioural tests every storage.Provider must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/storage"
)

// Factory returns a freshly initialized, empty provider
type Factory func(t *testing.T) storage.Provider

var base = time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

// Run executes the provider suite
func Run(t *testing.T, newStore Factory) {
	t.Run("EnergyLogs", func(t *testing.T) { testEnergyLogs(t, newStore(t)) })
	t.Run("AnchorCompletions", func(t *testing.T) { testAnchorCompletions(t, newStore(t)) })
	t.Run("DeleteAnchor", func(t *testing.T) { testDeleteAnchor(t, newStore(t)) })
	t.Run("ProjectsFromTemplate", func(t *testing.T) { testProjectsFromTemplate(t, newStore(t)) })
	t.Run("ToggleProjectStep", func(t *testing.T) { testToggleProjectStep(t, newStore(t)) })
	t.Run("ReorderProjectSteps", func(t *testing.T) { testReorderProjectSteps(t, newStore(t)) })
	t.Run("Tags", func(t *testing.T) { testTags(t, newStore(t)) })
	t.Run("BrainDump", func(t *testing.T) { testBrainDump(t, newStore(t)) })
	t.Run("DailySummaries", func(t *testing.T) { testDailySummaries(t, newStore(t)) })
	t.Run("Streak", func(t *testing.T) { testStreak(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
}

func testEnergyLogs(t *testing.T, s storage.Provider) {
	ctx := context.Background()

	if _, err := s.GetLatestEnergyLog(ctx); !apperrors.IsNotFound(err) {
		t.Errorf("GetLatestEnergyLog() on empty store error = %v, want not found", err)
	}

	levels := []constants.EnergyLevel{constants.EnergyLow, constants.EnergyHigh, constants.EnergyMedium}
	for i, level := range levels {
		_, err := s.AddEnergyLog(ctx, models.EnergyLog{
			Level:    level,
			Note:     "reading",
			LoggedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("AddEnergyLog() error = %v", err)
		}
	}

	all, err := s.GetEnergyLogs(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetEnergyLogs() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetEnergyLogs() returned %d logs, want 3", len(all))
	}
	if all[0].Level != constants.EnergyLow || all[0].Note != "reading" {
		t.Errorf("first log = %+v", all[0])
	}
	if !all[0].LoggedAt.Equal(base) {
		t.Errorf("first log time = %v, want %v", all[0].LoggedAt, base)
	}

	window, err := s.GetEnergyLogs(ctx, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetEnergyLogs() error = %v", err)
	}
	if len(window) != 1 || window[0].Level != constants.EnergyHigh {
		t.Errorf("windowed logs = %+v, want the single high log", window)
	}

	latest, err := s.GetLatestEnergyLog(ctx)
	if err != nil {
		t.Fatalf("GetLatestEnergyLog() error = %v", err)
	}
	if latest.Level != constants.EnergyMedium {
		t.Errorf("latest level = %s, want medium", latest.Level)
	}
}

func testAnchorCompletions(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	anchor, err := s.AddAnchor(ctx, models.Anchor{Label: "Hydrate", CreatedAt: base})
	if err != nil {
		t.Fatalf("AddAnchor() error = %v", err)
	}
	if anchor.Icon != "circle" {
		t.Errorf("default icon = %q, want circle", anchor.Icon)
	}

	c := models.AnchorCompletion{AnchorID: anchor.ID, CompletedDate: "2026-03-04", CompletedAt: base}
	inserted, err := s.AddAnchorCompletion(ctx, c)
	if err != nil || !inserted {
		t.Fatalf("AddAnchorCompletion() = %v, %v; want true, nil", inserted, err)
	}
	inserted, err = s.AddAnchorCompletion(ctx, c)
	if err != nil {
		t.Fatalf("duplicate AddAnchorCompletion() error = %v", err)
	}
	if inserted {
		t.Error("duplicate AddAnchorCompletion() reported an insert")
	}

	completions, err := s.GetAnchorCompletionsForDate(ctx, "2026-03-04")
	if err != nil {
		t.Fatalf("GetAnchorCompletionsForDate() error = %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("completions = %d, want exactly 1", len(completions))
	}

	n, err := s.CountAnchorCompletions(ctx, "2026-03-01", "2026-03-07")
	if err != nil || n != 1 {
		t.Errorf("CountAnchorCompletions() = %d, %v; want 1", n, err)
	}
	n, err = s.CountAnchorCompletions(ctx, "2026-03-05", "2026-03-07")
	if err != nil || n != 0 {
		t.Errorf("CountAnchorCompletions() outside range = %d, %v; want 0", n, err)
	}

	removed, err := s.RemoveAnchorCompletion(ctx, anchor.ID, "2026-03-04")
	if err != nil || !removed {
		t.Fatalf("RemoveAnchorCompletion() = %v, %v; want true, nil", removed, err)
	}
	removed, err = s.RemoveAnchorCompletion(ctx, anchor.ID, "2026-03-04")
	if err != nil || removed {
		t.Errorf("second RemoveAnchorCompletion() = %v, %v; want false, nil", removed, err)
	}
}

func testDeleteAnchor(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	anchor, err := s.AddAnchor(ctx, models.Anchor{Label: "Read", Icon: "book", SortOrder: 2, CreatedAt: base})
	if err != nil {
		t.Fatalf("AddAnchor() error = %v", err)
	}
	if _, err := s.AddAnchorCompletion(ctx, models.AnchorCompletion{
		AnchorID: anchor.ID, CompletedDate: "2026-03-04", CompletedAt: base,
	}); err != nil {
		t.Fatalf("AddAnchorCompletion() error = %v", err)
	}

	if err := s.DeleteAnchor(ctx, anchor.ID); err != nil {
		t.Fatalf("DeleteAnchor() error = %v", err)
	}
	if _, err := s.GetAnchor(ctx, anchor.ID); !apperrors.IsNotFound(err) {
		t.Errorf("GetAnchor() after delete error = %v, want not found", err)
	}
	all, err := s.GetAllAnchorCompletions(ctx)
	if err != nil {
		t.Fatalf("GetAllAnchorCompletions() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("completions after anchor delete = %d, want 0", len(all))
	}
	if err := s.DeleteAnchor(ctx, anchor.ID); !apperrors.IsNotFound(err) {
		t.Errorf("second DeleteAnchor() error = %v, want not found", err)
	}
}

func testProjectsFromTemplate(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	tmpl, err := s.AddTemplate(ctx, models.ProjectTemplate{Name: "Sunroom", IsDefault: true, CreatedAt: base})
	if err != nil {
		t.Fatalf("AddTemplate() error = %v", err)
	}
	titles := []string{"Clear", "Prime", "Paint"}
	for i, title := range titles {
		if _, err := s.AddTemplateStep(ctx, models.TemplateStep{
			TemplateID: tmpl.ID, Title: title, Effort: constants.EffortQuick, SortOrder: i,
		}); err != nil {
			t.Fatalf("AddTemplateStep() error = %v", err)
		}
	}

	project, err := s.AddProjectFromTemplate(ctx, models.Project{Name: "Sunroom", CreatedAt: base}, tmpl.ID)
	if err != nil {
		t.Fatalf("AddProjectFromTemplate() error = %v", err)
	}
	if project.TemplateID == nil || *project.TemplateID != tmpl.ID || !project.IsActive {
		t.Errorf("project = %+v, want active project linked to template", project)
	}

	steps, err := s.GetProjectSteps(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProjectSteps() error = %v", err)
	}
	if len(steps) != len(titles) {
		t.Fatalf("steps = %d, want %d", len(steps), len(titles))
	}
	for i, st := range steps {
		if st.Title != titles[i] || st.Completed || st.Effort != constants.EffortQuick {
			t.Errorf("step %d = %+v", i, st)
		}
	}

	if _, err := s.AddProjectFromTemplate(ctx, models.Project{Name: "x", CreatedAt: base}, 9999); !apperrors.IsNotFound(err) {
		t.Errorf("AddProjectFromTemplate() with unknown template error = %v, want not found", err)
	}

	done, err := s.CompleteProject(ctx, project.ID, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("CompleteProject() error = %v", err)
	}
	if done.IsActive || done.CompletedAt == nil {
		t.Errorf("completed project = %+v", done)
	}
	active, err := s.GetProjects(ctx, true)
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active projects = %d, want 0", len(active))
	}
}

func testToggleProjectStep(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	project, err := s.AddProject(ctx, models.Project{Name: "Garden", CreatedAt: base})
	if err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	step, err := s.AddProjectStep(ctx, models.ProjectStep{ProjectID: project.ID, Title: "Dig"})
	if err != nil {
		t.Fatalf("AddProjectStep() error = %v", err)
	}
	if step.Effort != constants.EffortMedium {
		t.Errorf("default effort = %s, want medium", step.Effort)
	}

	on, err := s.ToggleProjectStep(ctx, step.ID, base)
	if err != nil {
		t.Fatalf("ToggleProjectStep() error = %v", err)
	}
	if !on.Completed || on.CompletedAt == nil || !on.CompletedAt.Equal(base) {
		t.Errorf("toggled on = %+v", on)
	}

	n, err := s.CountCompletedSteps(ctx, base.Add(-time.Minute), base.Add(time.Minute))
	if err != nil || n != 1 {
		t.Errorf("CountCompletedSteps() = %d, %v; want 1", n, err)
	}
	n, err = s.CountCompletedSteps(ctx, base.Add(time.Minute), base.Add(time.Hour))
	if err != nil || n != 0 {
		t.Errorf("CountCompletedSteps() outside window = %d, %v; want 0", n, err)
	}

	off, err := s.ToggleProjectStep(ctx, step.ID, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("ToggleProjectStep() error = %v", err)
	}
	if off.Completed || off.CompletedAt != nil {
		t.Errorf("toggled off = %+v, want completed_at cleared", off)
	}

	if _, err := s.ToggleProjectStep(ctx, 9999, base); !apperrors.IsNotFound(err) {
		t.Errorf("ToggleProjectStep() unknown id error = %v, want not found", err)
	}
}

func testReorderProjectSteps(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	project, err := s.AddProject(ctx, models.Project{Name: "Garage", CreatedAt: base})
	if err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	var ids []int64
	for i, title := range []string{"a", "b", "c"} {
		st, err := s.AddProjectStep(ctx, models.ProjectStep{ProjectID: project.ID, Title: title, SortOrder: i})
		if err != nil {
			t.Fatalf("AddProjectStep() error = %v", err)
		}
		ids = append(ids, st.ID)
	}

	if err := s.ReorderProjectSteps(ctx, project.ID, []int64{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("ReorderProjectSteps() error = %v", err)
	}
	steps, err := s.GetProjectSteps(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProjectSteps() error = %v", err)
	}
	got := []string{steps[0].Title, steps[1].Title, steps[2].Title}
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("order after reorder = %v, want [c a b]", got)
	}

	if err := s.ReorderProjectSteps(ctx, project.ID, []int64{ids[0], 9999}); !apperrors.IsNotFound(err) {
		t.Errorf("ReorderProjectSteps() with foreign id error = %v, want not found", err)
	}
	steps, _ = s.GetProjectSteps(ctx, project.ID)
	if steps[0].Title != "c" {
		t.Errorf("failed reorder was not rolled back: first = %s", steps[0].Title)
	}
}

func testTags(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	tag, err := s.AddTag(ctx, models.Tag{Name: "home", CreatedAt: base})
	if err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	if tag.Color != "nebula-cyan" {
		t.Errorf("default color = %q", tag.Color)
	}
	if _, err := s.AddTag(ctx, models.Tag{Name: "home", CreatedAt: base}); !apperrors.IsConflict(err) {
		t.Errorf("duplicate AddTag() error = %v, want conflict", err)
	}
	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag() error = %v", err)
	}
	if err := s.DeleteTag(ctx, tag.ID); !apperrors.IsNotFound(err) {
		t.Errorf("second DeleteTag() error = %v, want not found", err)
	}
}

func testBrainDump(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	seed := []models.BrainDumpEntry{
		{Text: "Buy 100% cotton sheets", Category: constants.CategoryTask, TagIDs: []int64{1}, CreatedAt: base},
		{Text: "What if the shelves were oak?", Category: constants.CategoryIdea, TagIDs: []int64{2}, CreatedAt: base.Add(time.Minute)},
		{Text: "Paint dries slowly", Category: constants.CategoryNote, CreatedAt: base.Add(2 * time.Minute)},
	}
	var ids []int64
	for _, e := range seed {
		got, err := s.AddBrainDumpEntry(ctx, e)
		if err != nil {
			t.Fatalf("AddBrainDumpEntry() error = %v", err)
		}
		ids = append(ids, got.ID)
	}

	tests := []struct {
		name   string
		filter models.BrainDumpFilter
		want   []string
	}{
		{name: "newest first", filter: models.BrainDumpFilter{}, want: []string{seed[2].Text, seed[1].Text, seed[0].Text}},
		{name: "search is case insensitive", filter: models.BrainDumpFilter{Search: "PAINT"}, want: []string{seed[2].Text}},
		{name: "search escapes wildcards", filter: models.BrainDumpFilter{Search: "100%"}, want: []string{seed[0].Text}},
		{name: "category", filter: models.BrainDumpFilter{Category: constants.CategoryIdea}, want: []string{seed[1].Text}},
		{name: "any tag", filter: models.BrainDumpFilter{TagIDs: []int64{1, 2}}, want: []string{seed[1].Text, seed[0].Text}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetBrainDumpEntries(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetBrainDumpEntries() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Text != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Text, tt.want[i])
				}
			}
		})
	}

	if err := s.ArchiveBrainDumpEntry(ctx, ids[0], base.Add(time.Hour)); err != nil {
		t.Fatalf("ArchiveBrainDumpEntry() error = %v", err)
	}
	if err := s.ArchiveBrainDumpEntry(ctx, ids[0], base.Add(2*time.Hour)); err != nil {
		t.Fatalf("second ArchiveBrainDumpEntry() error = %v", err)
	}
	archived, err := s.GetBrainDumpEntry(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetBrainDumpEntry() error = %v", err)
	}
	if archived.ArchivedAt == nil || !archived.ArchivedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("archived_at = %v, want first archive time", archived.ArchivedAt)
	}
	open, _ := s.GetBrainDumpEntries(ctx, models.BrainDumpFilter{})
	if len(open) != 2 {
		t.Errorf("open entries = %d, want 2", len(open))
	}
	all, _ := s.GetBrainDumpEntries(ctx, models.BrainDumpFilter{IncludeArchived: true})
	if len(all) != 3 {
		t.Errorf("all entries = %d, want 3", len(all))
	}

	entry := all[0]
	entry.Category = constants.CategoryReminder
	entry.TagIDs = []int64{3, 4}
	updated, err := s.UpdateBrainDumpEntry(ctx, entry)
	if err != nil {
		t.Fatalf("UpdateBrainDumpEntry() error = %v", err)
	}
	if updated.Category != constants.CategoryReminder || len(updated.TagIDs) != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.DeleteBrainDumpEntry(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteBrainDumpEntry() error = %v", err)
	}
	if _, err := s.GetBrainDumpEntry(ctx, ids[1]); !apperrors.IsNotFound(err) {
		t.Errorf("GetBrainDumpEntry() after delete error = %v, want not found", err)
	}
}

func testDailySummaries(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	sum := models.DailySummary{
		Date: "2026-03-04", DominantEnergy: constants.EnergyHigh, AnchorsDone: 2, CreatedAt: base,
	}
	if _, err := s.SaveDailySummary(ctx, sum); err != nil {
		t.Fatalf("SaveDailySummary() error = %v", err)
	}
	sum.AnchorsDone = 3
	sum.ReflectionNote = "steady"
	sum.CreatedAt = base.Add(time.Hour)
	saved, err := s.SaveDailySummary(ctx, sum)
	if err != nil {
		t.Fatalf("SaveDailySummary() update error = %v", err)
	}
	if saved.AnchorsDone != 3 || saved.ReflectionNote != "steady" {
		t.Errorf("saved = %+v", saved)
	}
	if !saved.CreatedAt.Equal(base) {
		t.Errorf("created_at = %v, want first snapshot time", saved.CreatedAt)
	}

	if _, err := s.GetDailySummary(ctx, "2026-03-05"); !apperrors.IsNotFound(err) {
		t.Errorf("GetDailySummary() missing error = %v, want not found", err)
	}
	list, err := s.GetDailySummaries(ctx, "2026-03-01", "")
	if err != nil || len(list) != 1 {
		t.Errorf("GetDailySummaries() = %d, %v; want 1", len(list), err)
	}
}

func testStreak(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	st, err := s.GetStreak(ctx)
	if err != nil {
		t.Fatalf("GetStreak() error = %v", err)
	}
	if st.CurrentStreak != 0 || st.LongestStreak != 0 || st.LastActiveDate != "" {
		t.Errorf("initial streak = %+v, want zero and unset", st)
	}

	updated, err := s.UpdateStreak(ctx, func(cur models.Streak) (models.Streak, bool) {
		cur.CurrentStreak = 4
		cur.LongestStreak = 6
		cur.LastActiveDate = "2026-03-04"
		cur.UpdatedAt = base
		return cur, true
	})
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if updated.CurrentStreak != 4 {
		t.Errorf("UpdateStreak() = %+v", updated)
	}

	unchanged, err := s.UpdateStreak(ctx, func(cur models.Streak) (models.Streak, bool) {
		cur.CurrentStreak = 99
		return cur, false
	})
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if unchanged.CurrentStreak != 4 {
		t.Errorf("unchanged UpdateStreak() returned %d, want stored 4", unchanged.CurrentStreak)
	}

	got, err := s.GetStreak(ctx)
	if err != nil {
		t.Fatalf("GetStreak() error = %v", err)
	}
	if got.CurrentStreak != 4 || got.LongestStreak != 6 || got.LastActiveDate != "2026-03-04" {
		t.Errorf("persisted streak = %+v", got)
	}
}

func testSettings(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	settings, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.WeeklyTarget != constants.DefaultWeeklyTarget || settings.CurrentEnergyLevel != constants.EnergyMedium {
		t.Errorf("default settings = %+v", settings)
	}

	settings.WeeklyTarget = 20
	settings.CurrentEnergyLevel = constants.EnergyHigh
	settings.UpdatedAt = base
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got.WeeklyTarget != 20 || got.CurrentEnergyLevel != constants.EnergyHigh || !got.UpdatedAt.Equal(base) {
		t.Errorf("saved settings = %+v", got)
	}
}
