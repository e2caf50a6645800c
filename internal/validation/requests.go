package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/sanctuary/internal/constants"
	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const (
	MaxLabelLength = 100
	MaxTextLength  = 2000
	MaxNoteLength  = 500
)

// issues accumulates field problems for a single request
type issues struct {
	list []apperrors.Issue
}

func (is *issues) add(field, format string, args ...interface{}) {
	is.list = append(is.list, apperrors.Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (is *issues) required(field, value string, max int) {
	switch {
	case strings.TrimSpace(value) == "":
		is.add(field, "is required")
	case utf8.RuneCountInString(value) > max:
		is.add(field, "must be at most %d characters", max)
	}
}

func (is *issues) optional(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		is.add(field, "must be at most %d characters", max)
	}
}

func (is *issues) err() error {
	if len(is.list) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Issues: is.list}
}

// EnergyLevel checks a raw energy level value
func EnergyLevel(field, value string) error {
	if !constants.EnergyLevel(value).Valid() {
		return apperrors.Invalid(field, "must be one of low, medium, high")
	}
	return nil
}

// Category checks a raw brain dump category value
func Category(field, value string) error {
	if !constants.Category(value).Valid() {
		return apperrors.Invalid(field, "must be one of task, idea, note, reminder")
	}
	return nil
}

// Date checks a YYYY-MM-DD value
func Date(field, value string) error {
	if !utils.ValidateDateFormat(value) {
		return apperrors.Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// DateRange checks optional start and end dates, start not after end
func DateRange(startField, start, endField, end string) error {
	var is issues
	if start != "" && !utils.ValidateDateFormat(start) {
		is.add(startField, "must be a date in YYYY-MM-DD format")
	}
	if end != "" && !utils.ValidateDateFormat(end) {
		is.add(endField, "must be a date in YYYY-MM-DD format")
	}
	if len(is.list) == 0 && start != "" && end != "" && start > end {
		is.add(endField, "must not be before %s", startField)
	}
	return is.err()
}

// PatternDays checks the look-back window for energy patterns
func PatternDays(days int) error {
	if days < 1 || days > constants.MaxPatternDays {
		return apperrors.Invalid("days", "must be between 1 and %d", constants.MaxPatternDays)
	}
	return nil
}

func LogEnergy(req models.LogEnergyRequest) error {
	var is issues
	if !constants.EnergyLevel(req.Level).Valid() {
		is.add("level", "must be one of low, medium, high")
	}
	is.optional("note", req.Note, MaxNoteLength)
	return is.err()
}

func CreateAnchor(req models.CreateAnchorRequest) error {
	var is issues
	is.required("label", req.Label, MaxLabelLength)
	is.optional("icon", req.Icon, MaxLabelLength)
	if req.SortOrder != nil && *req.SortOrder < 0 {
		is.add("sort_order", "must not be negative")
	}
	return is.err()
}

func CreateProject(req models.CreateProjectRequest) error {
	var is issues
	is.required("name", req.Name, MaxLabelLength)
	is.optional("description", req.Description, MaxTextLength)
	if req.TemplateID != nil && *req.TemplateID <= 0 {
		is.add("template_id", "must be a positive id")
	}
	return is.err()
}

func CreateStep(req models.CreateStepRequest) error {
	var is issues
	if req.ProjectID <= 0 {
		is.add("project_id", "must be a positive id")
	}
	is.required("title", req.Title, MaxLabelLength)
	is.optional("description", req.Description, MaxTextLength)
	if req.Effort != "" && !constants.Effort(req.Effort).Valid() {
		is.add("effort", "must be one of quick, medium, heavy")
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		is.add("sort_order", "must not be negative")
	}
	return is.err()
}

func CreateTemplate(req models.CreateTemplateRequest) error {
	var is issues
	is.required("name", req.Name, MaxLabelLength)
	is.optional("description", req.Description, MaxTextLength)
	return is.err()
}

func CreateTemplateStep(req models.CreateTemplateStepRequest) error {
	var is issues
	if req.TemplateID <= 0 {
		is.add("template_id", "must be a positive id")
	}
	is.required("title", req.Title, MaxLabelLength)
	is.optional("description", req.Description, MaxTextLength)
	if req.Effort != "" && !constants.Effort(req.Effort).Valid() {
		is.add("effort", "must be one of quick, medium, heavy")
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		is.add("sort_order", "must not be negative")
	}
	return is.err()
}

func ReorderSteps(req models.ReorderStepsRequest) error {
	var is issues
	if len(req.StepIDs) == 0 {
		is.add("step_ids", "is required")
	}
	seen := make(map[int64]bool, len(req.StepIDs))
	for _, id := range req.StepIDs {
		if seen[id] {
			is.add("step_ids", "contains duplicate id %d", id)
			break
		}
		seen[id] = true
	}
	return is.err()
}

func CreateTag(req models.CreateTagRequest) error {
	var is issues
	is.required("name", req.Name, MaxLabelLength)
	is.optional("color", req.Color, MaxLabelLength)
	return is.err()
}

func BrainDump(req models.BrainDumpRequest) error {
	var is issues
	is.required("text", req.Text, MaxTextLength)
	if req.Category != "" && !constants.Category(req.Category).Valid() {
		is.add("category", "must be one of task, idea, note, reminder")
	}
	checkTagIDs(&is, req.TagIDs)
	return is.err()
}

func UpdateBrainDump(req models.UpdateBrainDumpRequest) error {
	var is issues
	if req.Text == nil && req.Category == nil && req.TagIDs == nil {
		is.add("body", "must contain at least one of text, category, tag_ids")
	}
	if req.Text != nil {
		is.required("text", *req.Text, MaxTextLength)
	}
	if req.Category != nil && *req.Category != "" && !constants.Category(*req.Category).Valid() {
		is.add("category", "must be one of task, idea, note, reminder")
	}
	if req.TagIDs != nil {
		checkTagIDs(&is, *req.TagIDs)
	}
	return is.err()
}

func checkTagIDs(is *issues, ids []int64) {
	for _, id := range ids {
		if id <= 0 {
			is.add("tag_ids", "must contain positive ids")
			return
		}
	}
}

func Categorize(req models.CategorizeRequest) error {
	var is issues
	is.optional("text", req.Text, MaxTextLength)
	return is.err()
}

func UpdateSettings(req models.UpdateSettingsRequest) error {
	var is issues
	if req.WeeklyTarget != nil && *req.WeeklyTarget < 1 {
		is.add("weekly_target", "must be at least 1")
	}
	if req.CurrentEnergyLevel != nil && !constants.EnergyLevel(*req.CurrentEnergyLevel).Valid() {
		is.add("current_energy_level", "must be one of low, medium, high")
	}
	return is.err()
}

func ReflectionNote(req models.ReflectionNoteRequest) error {
	var is issues
	is.optional("note", req.Note, MaxTextLength)
	return is.err()
}
