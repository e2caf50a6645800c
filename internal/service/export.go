package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

// Export collects every table into one document
func (s *Service) Export(ctx context.Context) (models.Export, error) {
	out := models.Export{
		ID:         uuid.NewString(),
		ExportedAt: s.now().UTC(),
		Version:    constants.Version,
	}

	var err error
	if out.EnergyLogs, err = s.store.GetEnergyLogs(ctx, time.Time{}, time.Time{}); err != nil {
		return models.Export{}, err
	}
	if out.Anchors, err = s.store.GetAllAnchors(ctx); err != nil {
		return models.Export{}, err
	}
	if out.AnchorCompletions, err = s.store.GetAllAnchorCompletions(ctx); err != nil {
		return models.Export{}, err
	}
	if out.Templates, err = s.store.GetAllTemplates(ctx); err != nil {
		return models.Export{}, err
	}
	if out.TemplateSteps, err = s.store.GetAllTemplateSteps(ctx); err != nil {
		return models.Export{}, err
	}
	if out.Projects, err = s.store.GetProjects(ctx, false); err != nil {
		return models.Export{}, err
	}
	if out.ProjectSteps, err = s.store.GetAllProjectSteps(ctx); err != nil {
		return models.Export{}, err
	}
	if out.Tags, err = s.store.GetAllTags(ctx); err != nil {
		return models.Export{}, err
	}
	if out.BrainDump, err = s.store.GetBrainDumpEntries(ctx, models.BrainDumpFilter{IncludeArchived: true}); err != nil {
		return models.Export{}, err
	}
	if out.DailySummaries, err = s.store.GetDailySummaries(ctx, "", ""); err != nil {
		return models.Export{}, err
	}
	if out.Streak, err = s.store.GetStreak(ctx); err != nil {
		return models.Export{}, err
	}
	if out.Settings, err = s.Settings(ctx); err != nil {
		return models.Export{}, err
	}
	return out, nil
}
