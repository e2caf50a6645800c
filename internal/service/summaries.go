package service

import (
	"context"

	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
	"github.com/julianstephens/sanctuary/internal/validation"
)

func (s *Service) dateOrToday(field, date string) (string, error) {
	if date == "" {
		return s.today(), nil
	}
	if err := validation.Date(field, date); err != nil {
		return "", err
	}
	return date, nil
}

// Snapshot computes and stores the summary of date (today when empty). A
// reflection note written earlier for the same date is preserved.
func (s *Service) Snapshot(ctx context.Context, date string) (models.DailySummary, error) {
	date, err := s.dateOrToday("date", date)
	if err != nil {
		return models.DailySummary{}, err
	}
	start, end, err := utils.DayBounds(date, s.location())
	if err != nil {
		return models.DailySummary{}, err
	}

	logs, err := s.store.GetEnergyLogs(ctx, start, end)
	if err != nil {
		return models.DailySummary{}, err
	}
	anchors, err := s.store.CountAnchorCompletions(ctx, date, date)
	if err != nil {
		return models.DailySummary{}, err
	}
	tasks, err := s.store.CountCompletedSteps(ctx, start, end)
	if err != nil {
		return models.DailySummary{}, err
	}
	entries, err := s.store.GetBrainDumpEntries(ctx, models.BrainDumpFilter{
		IncludeArchived: true,
		From:            &start,
		To:              &end,
	})
	if err != nil {
		return models.DailySummary{}, err
	}

	summary := models.DailySummary{
		Date:           date,
		DominantEnergy: insights.DominantLevel(logs),
		AnchorsDone:    anchors,
		TasksDone:      tasks,
		ThoughtsCaught: len(entries),
		CreatedAt:      s.now(),
	}
	existing, err := s.store.GetDailySummary(ctx, date)
	switch {
	case err == nil:
		summary.ReflectionNote = existing.ReflectionNote
	case !apperrors.IsNotFound(err):
		return models.DailySummary{}, err
	}
	return s.store.SaveDailySummary(ctx, summary)
}

func (s *Service) DailySummary(ctx context.Context, date string) (models.DailySummary, error) {
	if err := validation.Date("date", date); err != nil {
		return models.DailySummary{}, err
	}
	return s.store.GetDailySummary(ctx, date)
}

// DailySummaries lists stored summaries with from <= date <= to
func (s *Service) DailySummaries(ctx context.Context, from, to string) ([]models.DailySummary, error) {
	if err := validation.DateRange("from", from, "to", to); err != nil {
		return nil, err
	}
	return s.store.GetDailySummaries(ctx, from, to)
}

// SetReflectionNote stores note on the summary of date, taking a snapshot
// first when none exists yet.
func (s *Service) SetReflectionNote(ctx context.Context, date string, req models.ReflectionNoteRequest) (models.DailySummary, error) {
	if err := validation.Date("date", date); err != nil {
		return models.DailySummary{}, err
	}
	if err := validation.ReflectionNote(req); err != nil {
		return models.DailySummary{}, err
	}

	summary, err := s.store.GetDailySummary(ctx, date)
	if apperrors.IsNotFound(err) {
		summary, err = s.Snapshot(ctx, date)
	}
	if err != nil {
		return models.DailySummary{}, err
	}
	summary.ReflectionNote = req.Note
	return s.store.SaveDailySummary(ctx, summary)
}
