package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

// ConflictType represents the type of data integrity conflict
type ConflictType string

const (
	ConflictDuplicateCompletion ConflictType = "duplicate_completion"
	ConflictDanglingReference   ConflictType = "dangling_reference"
	ConflictStreakInvariant     ConflictType = "streak_invariant"
	ConflictInvalidEnum         ConflictType = "invalid_enum"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictStepCompletion      ConflictType = "step_completion"
	ConflictDuplicateTagName    ConflictType = "duplicate_tag_name"
)

// Conflict represents a detected problem in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Names or dates involved
	IDs         []int64  // Record ids involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a full data snapshot for integrity problems the schema
// cannot rule out on its own (older databases, manual edits, imports).
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateData runs every integrity check over data
func (v *Validator) ValidateData(data models.Export) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	result.Conflicts = append(result.Conflicts, v.checkCompletions(data)...)
	result.Conflicts = append(result.Conflicts, v.checkStreak(data.Streak)...)
	result.Conflicts = append(result.Conflicts, v.checkEnums(data)...)
	result.Conflicts = append(result.Conflicts, v.checkSteps(data)...)
	result.Conflicts = append(result.Conflicts, v.checkTags(data.Tags)...)
	result.Conflicts = append(result.Conflicts, v.checkSummaries(data.DailySummaries)...)
	return result
}

func (v *Validator) checkCompletions(data models.Export) []Conflict {
	var conflicts []Conflict

	anchors := make(map[int64]bool, len(data.Anchors))
	for _, a := range data.Anchors {
		anchors[a.ID] = true
	}

	seen := make(map[string][]int64)
	for _, c := range data.AnchorCompletions {
		if !utils.ValidateDateFormat(c.CompletedDate) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Anchor completion %d has invalid date: %q", c.ID, c.CompletedDate),
				Items:       []string{c.CompletedDate},
				IDs:         []int64{c.ID},
			})
		}
		if !anchors[c.AnchorID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("Anchor completion %d references missing anchor %d", c.ID, c.AnchorID),
				IDs:         []int64{c.ID},
			})
		}
		key := fmt.Sprintf("%d|%s", c.AnchorID, c.CompletedDate)
		seen[key] = append(seen[key], c.ID)
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ids := seen[k]
		if len(ids) < 2 {
			continue
		}
		parts := strings.SplitN(k, "|", 2)
		conflicts = append(conflicts, Conflict{
			Type:        ConflictDuplicateCompletion,
			Description: fmt.Sprintf("Anchor %s completed %d times on %s (IDs: %v)", parts[0], len(ids), parts[1], ids),
			Items:       []string{parts[1]},
			IDs:         ids,
		})
	}
	return conflicts
}

func (v *Validator) checkStreak(s models.Streak) []Conflict {
	var conflicts []Conflict
	if s.CurrentStreak < 0 || s.LongestStreak < 0 || s.CurrentStreak > s.LongestStreak {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictStreakInvariant,
			Description: fmt.Sprintf("Streak is inconsistent: current %d, longest %d", s.CurrentStreak, s.LongestStreak),
		})
	}
	if s.LastActiveDate != "" && !utils.ValidateDateFormat(s.LastActiveDate) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Streak has invalid last active date: %q", s.LastActiveDate),
			Items:       []string{s.LastActiveDate},
		})
	}
	return conflicts
}

func (v *Validator) checkEnums(data models.Export) []Conflict {
	var conflicts []Conflict
	invalid := func(kind string, id int64, field, value string) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidEnum,
			Description: fmt.Sprintf("%s %d has invalid %s: %q", kind, id, field, value),
			Items:       []string{value},
			IDs:         []int64{id},
		})
	}

	for _, l := range data.EnergyLogs {
		if !l.Level.Valid() {
			invalid("Energy log", l.ID, "level", string(l.Level))
		}
	}
	for _, st := range data.ProjectSteps {
		if !st.Effort.Valid() {
			invalid("Project step", st.ID, "effort", string(st.Effort))
		}
	}
	for _, st := range data.TemplateSteps {
		if !st.Effort.Valid() {
			invalid("Template step", st.ID, "effort", string(st.Effort))
		}
	}
	for _, e := range data.BrainDump {
		if e.Category != "" && !e.Category.Valid() {
			invalid("Brain dump entry", e.ID, "category", string(e.Category))
		}
	}
	if data.Settings.CurrentEnergyLevel != "" && !data.Settings.CurrentEnergyLevel.Valid() {
		invalid("Settings", 0, "current_energy_level", string(data.Settings.CurrentEnergyLevel))
	}
	return conflicts
}

func (v *Validator) checkSteps(data models.Export) []Conflict {
	var conflicts []Conflict

	projects := make(map[int64]bool, len(data.Projects))
	for _, p := range data.Projects {
		projects[p.ID] = true
	}

	for _, st := range data.ProjectSteps {
		if !projects[st.ProjectID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("Project step %d references missing project %d", st.ID, st.ProjectID),
				IDs:         []int64{st.ID},
			})
		}
		if st.Completed != (st.CompletedAt != nil) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictStepCompletion,
				Description: fmt.Sprintf("Project step %q has completed=%v but completed_at %s", st.Title, st.Completed, describeTime(st.CompletedAt != nil)),
				Items:       []string{st.Title},
				IDs:         []int64{st.ID},
			})
		}
	}
	return conflicts
}

func describeTime(set bool) string {
	if set {
		return "set"
	}
	return "unset"
}

func (v *Validator) checkTags(tags []models.Tag) []Conflict {
	var conflicts []Conflict
	byName := make(map[string][]int64)
	for _, t := range tags {
		byName[t.Name] = append(byName[t.Name], t.ID)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateTagName,
				Description: fmt.Sprintf("Duplicate tag name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}
	return conflicts
}

func (v *Validator) checkSummaries(summaries []models.DailySummary) []Conflict {
	var conflicts []Conflict
	for _, s := range summaries {
		if !utils.ValidateDateFormat(s.Date) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Daily summary %d has invalid date: %q", s.ID, s.Date),
				Items:       []string{s.Date},
				IDs:         []int64{s.ID},
			})
		}
	}
	return conflicts
}

// AutoFixStreak repairs a streak whose current count exceeds the longest by
// raising the longest. Negative counts are reset to zero.
func AutoFixStreak(conflicts []Conflict, streak models.Streak, saveFunc func(models.Streak) error) []FixAction {
	var actions []FixAction
	for _, conflict := range conflicts {
		if conflict.Type != ConflictStreakInvariant {
			continue
		}

		fixed := streak
		if fixed.CurrentStreak < 0 {
			fixed.CurrentStreak = 0
		}
		if fixed.LongestStreak < fixed.CurrentStreak {
			fixed.LongestStreak = fixed.CurrentStreak
		}
		if err := saveFunc(fixed); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to repair streak: %v", err),
				SourceConflict: conflict,
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Set streak to current %d, longest %d", fixed.CurrentStreak, fixed.LongestStreak),
			SourceConflict: conflict,
		})
		streak = fixed
	}
	return actions
}
