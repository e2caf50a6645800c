package service

import (
	"context"
	"fmt"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/models"
)

type seedStep struct {
	title       string
	description string
	effort      constants.Effort
}

var (
	seedAnchors = []models.Anchor{
		{Label: "Hydrate (32oz)", Icon: "droplets"},
		{Label: "No Phone in Bed", Icon: "smartphone"},
		{Label: "Read Physics (10m)", Icon: "book"},
	}

	seedSunroomSteps = []seedStep{
		{"Clear & Assess", "Remove existing items, measure space", constants.EffortQuick},
		{"Prime Walls", "Prep and prime for paint", constants.EffortMedium},
		{"Paint Sunroom", "Two coats of Coastal Blue", constants.EffortHeavy},
		{"Install Shelving", "Mount 3 floating shelves", constants.EffortMedium},
		{"Style & Decorate", "Add plants, books, lighting", constants.EffortQuick},
	}

	seedTags = []models.Tag{
		{Name: "urgent", Color: "red"},
		{Name: "sunroom", Color: "purple"},
		{Name: "self-care", Color: "cyan"},
		{Name: "family", Color: "blue"},
		{Name: "work", Color: "yellow"},
	}

	seedEntries = []models.BrainDumpEntry{
		{Text: "Order new sheets for sunroom", Category: constants.CategoryTask},
		{Text: "Check paint humidity levels tomorrow", Category: constants.CategoryReminder},
		{Text: "Call contractor about shelving install", Category: constants.CategoryTask},
	}
)

// seedCompletedSteps is how many leading sunroom steps start out done
const seedCompletedSteps = 2

// Seed installs the starter data set. It does nothing and reports false when
// any anchor already exists. The streak is left untouched.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	existing, err := s.store.GetAllAnchors(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	now := s.now()
	for i, a := range seedAnchors {
		a.SortOrder = i
		a.CreatedAt = now
		if _, err := s.store.AddAnchor(ctx, a); err != nil {
			return false, fmt.Errorf("failed to seed anchor %q: %w", a.Label, err)
		}
	}

	tmpl, err := s.store.AddTemplate(ctx, models.ProjectTemplate{
		Name:        "Sunroom Renovation",
		Description: "Transform the sunroom into a cozy reading space",
		IsDefault:   true,
		CreatedAt:   now,
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed template: %w", err)
	}
	for i, st := range seedSunroomSteps {
		if _, err := s.store.AddTemplateStep(ctx, models.TemplateStep{
			TemplateID:  tmpl.ID,
			Title:       st.title,
			Description: st.description,
			Effort:      st.effort,
			SortOrder:   i,
		}); err != nil {
			return false, fmt.Errorf("failed to seed template step %q: %w", st.title, err)
		}
	}

	project, err := s.store.AddProjectFromTemplate(ctx, models.Project{
		Name:        "Sunroom Project",
		Description: tmpl.Description,
		IsActive:    true,
		CreatedAt:   now,
	}, tmpl.ID)
	if err != nil {
		return false, fmt.Errorf("failed to seed project: %w", err)
	}
	steps, err := s.store.GetProjectSteps(ctx, project.ID)
	if err != nil {
		return false, err
	}
	for i := 0; i < seedCompletedSteps && i < len(steps); i++ {
		if _, err := s.store.ToggleProjectStep(ctx, steps[i].ID, now); err != nil {
			return false, err
		}
	}

	tagIDs := make(map[string]int64, len(seedTags))
	for _, t := range seedTags {
		t.CreatedAt = now
		tag, err := s.store.AddTag(ctx, t)
		if err != nil {
			return false, fmt.Errorf("failed to seed tag %q: %w", t.Name, err)
		}
		tagIDs[tag.Name] = tag.ID
	}

	for _, e := range seedEntries {
		e.TagIDs = []int64{tagIDs["sunroom"]}
		e.CreatedAt = now
		if _, err := s.store.AddBrainDumpEntry(ctx, e); err != nil {
			return false, fmt.Errorf("failed to seed brain dump entry: %w", err)
		}
	}

	if _, err := s.Settings(ctx); err != nil {
		return false, err
	}

	logger.Info("Seeded starter data", "anchors", len(seedAnchors), "tags", len(seedTags))
	return true, nil
}
