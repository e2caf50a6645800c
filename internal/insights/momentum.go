package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

// MomentumSource is the read-only data the calculator aggregates
type MomentumSource interface {
	// CountAnchorCompletions counts completions with fromDate <= date <= toDate
	CountAnchorCompletions(ctx context.Context, fromDate, toDate string) (int, error)
	// CountCompletedSteps counts completed steps with from <= completed_at < to
	CountCompletedSteps(ctx context.Context, from, to time.Time) (int, error)
	GetSettings(ctx context.Context) (models.Settings, error)
	GetStreak(ctx context.Context) (models.Streak, error)
}

// MomentumCalculator aggregates today's and this week's completions
type MomentumCalculator struct {
	source MomentumSource
	clock  utils.Clock
}

func NewMomentumCalculator(source MomentumSource, clock utils.Clock) *MomentumCalculator {
	return &MomentumCalculator{source: source, clock: clock}
}

// Compute counts anchor completions plus completed project steps for the
// current local day and for the week from Sunday midnight up to now. The
// streak is reported as stored.
func (m *MomentumCalculator) Compute(ctx context.Context) (models.MomentumData, error) {
	now := m.clock.Now()
	today := utils.DateString(now)
	dayStart := utils.StartOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := utils.StartOfWeek(now)
	// completed_at is stored at millisecond precision
	weekEnd := now.Truncate(time.Millisecond).Add(time.Millisecond)

	anchorsToday, err := m.source.CountAnchorCompletions(ctx, today, today)
	if err != nil {
		return models.MomentumData{}, err
	}
	stepsToday, err := m.source.CountCompletedSteps(ctx, dayStart, dayEnd)
	if err != nil {
		return models.MomentumData{}, err
	}
	anchorsWeek, err := m.source.CountAnchorCompletions(ctx, utils.DateString(weekStart), today)
	if err != nil {
		return models.MomentumData{}, err
	}
	stepsWeek, err := m.source.CountCompletedSteps(ctx, weekStart, weekEnd)
	if err != nil {
		return models.MomentumData{}, err
	}

	settings, err := m.source.GetSettings(ctx)
	if err != nil {
		return models.MomentumData{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	streak, err := m.source.GetStreak(ctx)
	if err != nil {
		return models.MomentumData{}, fmt.Errorf("failed to get streak: %w", err)
	}

	return models.MomentumData{
		CompletedToday:   anchorsToday + stepsToday,
		WeeklyCompletion: anchorsWeek + stepsWeek,
		WeeklyTarget:     settings.WeeklyTarget,
		Streak:           streak.CurrentStreak,
	}, nil
}
