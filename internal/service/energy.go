package service

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
	"github.com/julianstephens/sanctuary/internal/validation"
)

// LogEnergy stores a reading, makes it the current energy level and records
// activity.
func (s *Service) LogEnergy(ctx context.Context, req models.LogEnergyRequest) (models.EnergyLog, error) {
	if err := validation.LogEnergy(req); err != nil {
		return models.EnergyLog{}, err
	}

	now := s.now()
	entry, err := s.store.AddEnergyLog(ctx, models.EnergyLog{
		Level:    constants.EnergyLevel(req.Level),
		Note:     req.Note,
		LoggedAt: now,
	})
	if err != nil {
		return models.EnergyLog{}, err
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.EnergyLog{}, err
	}
	settings.CurrentEnergyLevel = entry.Level
	settings.UpdatedAt = now
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return models.EnergyLog{}, err
	}

	s.metrics.RecordEnergyLog(entry.Level)
	if err := s.recordActivity(ctx, constants.ActivityEnergy); err != nil {
		return models.EnergyLog{}, err
	}
	return entry, nil
}

// CurrentEnergy returns the level last set by a log or a settings update
func (s *Service) CurrentEnergy(ctx context.Context) (models.EnergyState, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.EnergyState{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return models.EnergyState{Level: settings.CurrentEnergyLevel}, nil
}

// EnergyLogs returns logs whose local date lies within [startDate, endDate].
// Either bound may be empty.
func (s *Service) EnergyLogs(ctx context.Context, startDate, endDate string) ([]models.EnergyLog, error) {
	if err := validation.DateRange("startDate", startDate, "endDate", endDate); err != nil {
		return nil, err
	}

	var from, to time.Time
	if startDate != "" {
		start, _, err := utils.DayBounds(startDate, s.location())
		if err != nil {
			return nil, err
		}
		from = start
	}
	if endDate != "" {
		_, end, err := utils.DayBounds(endDate, s.location())
		if err != nil {
			return nil, err
		}
		to = end
	}
	return s.store.GetEnergyLogs(ctx, from, to)
}

func (s *Service) resolveDays(days int) (int, error) {
	if days == 0 {
		days = s.patternDays
	}
	if err := validation.PatternDays(days); err != nil {
		return 0, err
	}
	return days, nil
}

func (s *Service) recentLogs(ctx context.Context, days int) ([]models.EnergyLog, error) {
	now := s.now()
	logs, err := s.store.GetEnergyLogs(ctx, now.AddDate(0, 0, -days), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load energy logs: %w", err)
	}
	return logs, nil
}

// EnergyPatterns buckets the logs of the last days days by weekday and hour.
// days == 0 uses the configured default.
func (s *Service) EnergyPatterns(ctx context.Context, days int) ([]models.EnergyPattern, error) {
	days, err := s.resolveDays(days)
	if err != nil {
		return nil, err
	}
	logs, err := s.recentLogs(ctx, days)
	if err != nil {
		return nil, err
	}
	return insights.ComputePatterns(logs, s.location()), nil
}

// EnergyInsights returns the patterns together with peak and rest times
func (s *Service) EnergyInsights(ctx context.Context, days int) (models.EnergyInsights, error) {
	days, err := s.resolveDays(days)
	if err != nil {
		return models.EnergyInsights{}, err
	}
	logs, err := s.recentLogs(ctx, days)
	if err != nil {
		return models.EnergyInsights{}, err
	}
	return insights.BuildInsights(logs, s.location(), days), nil
}
