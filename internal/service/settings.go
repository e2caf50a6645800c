package service

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/validation"
)

func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// UpdateSettings applies the fields present in req
func (s *Service) UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (models.Settings, error) {
	if err := validation.UpdateSettings(req); err != nil {
		return models.Settings{}, err
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if req.WeeklyTarget != nil {
		settings.WeeklyTarget = *req.WeeklyTarget
	}
	if req.CurrentEnergyLevel != nil {
		settings.CurrentEnergyLevel = constants.EnergyLevel(*req.CurrentEnergyLevel)
	}
	settings.UpdatedAt = s.now()
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *Service) Momentum(ctx context.Context) (models.MomentumData, error) {
	return s.momentum.Compute(ctx)
}

// Streak returns the stored streak. A lapse is not visible until the next
// recorded activity.
func (s *Service) Streak(ctx context.Context) (models.Streak, error) {
	return s.streaks.Get(ctx)
}
