package service

import (
	"context"
	"fmt"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
	"github.com/julianstephens/sanctuary/internal/validation"
)

// WeeklyReflection summarizes the seven days starting at weekStart. An empty
// weekStart means the current week, which starts on Sunday.
func (s *Service) WeeklyReflection(ctx context.Context, weekStart string) (models.WeeklyReflection, error) {
	if weekStart == "" {
		weekStart = utils.DateString(utils.StartOfWeek(s.clock.Now()))
	}
	if err := validation.Date("weekStart", weekStart); err != nil {
		return models.WeeklyReflection{}, err
	}
	weekEnd, err := utils.AddDays(weekStart, 6)
	if err != nil {
		return models.WeeklyReflection{}, err
	}

	from, err := utils.ParseDateInLocation(weekStart, s.location())
	if err != nil {
		return models.WeeklyReflection{}, err
	}
	to := from.AddDate(0, 0, 7)

	anchors, err := s.store.CountAnchorCompletions(ctx, weekStart, weekEnd)
	if err != nil {
		return models.WeeklyReflection{}, err
	}
	tasks, err := s.store.CountCompletedSteps(ctx, from, to)
	if err != nil {
		return models.WeeklyReflection{}, err
	}
	entries, err := s.store.GetBrainDumpEntries(ctx, models.BrainDumpFilter{
		IncludeArchived: true,
		From:            &from,
		To:              &to,
	})
	if err != nil {
		return models.WeeklyReflection{}, err
	}
	tags, err := s.store.GetAllTags(ctx)
	if err != nil {
		return models.WeeklyReflection{}, err
	}
	logs, err := s.store.GetEnergyLogs(ctx, from, to)
	if err != nil {
		return models.WeeklyReflection{}, fmt.Errorf("failed to load energy logs: %w", err)
	}
	streak, err := s.streaks.Get(ctx)
	if err != nil {
		return models.WeeklyReflection{}, err
	}

	return models.WeeklyReflection{
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		AnchorsCompleted: anchors,
		TasksCompleted:   tasks,
		ThoughtsCaptured: len(entries),
		EnergyPatterns:   insights.ComputePatterns(logs, s.location()),
		TopTags:          insights.TopTags(entries, tags, constants.TopTagLimit),
		Streak:           streak.CurrentStreak,
	}, nil
}
