package service

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/models"
)

// Dashboard assembles the home screen: energy, today's anchors, the first
// active project with its steps, open brain dump entries and momentum.
func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	energy, err := s.CurrentEnergy(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	anchors, err := s.Anchors(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	projects, err := s.store.GetProjects(ctx, true)
	if err != nil {
		return models.Dashboard{}, err
	}
	entries, err := s.store.GetBrainDumpEntries(ctx, models.BrainDumpFilter{})
	if err != nil {
		return models.Dashboard{}, err
	}
	momentum, err := s.Momentum(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}

	dash := models.Dashboard{
		Energy:    energy.Level,
		Anchors:   anchors,
		BrainDump: entries,
		Momentum:  momentum,
	}
	if len(projects) > 0 {
		steps, err := s.store.GetProjectSteps(ctx, projects[0].ID)
		if err != nil {
			return models.Dashboard{}, err
		}
		dash.ActiveProject = &models.ProjectWithSteps{Project: projects[0], Steps: steps}
	}
	return dash, nil
}
