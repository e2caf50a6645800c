package insights

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

// StreakStore is the persistence the tracker needs
type StreakStore interface {
	GetStreak(ctx context.Context) (models.Streak, error)
	UpdateStreak(ctx context.Context, fn func(models.Streak) (models.Streak, bool)) (models.Streak, error)
}

// StreakTracker maintains the consecutive-days activity counter.
// RecordActivity calls are serialized within the process and each update is
// applied in a single store transaction.
type StreakTracker struct {
	store StreakStore
	clock utils.Clock
	mu    sync.Mutex
}

// NewStreakTracker creates a tracker that reads "today" from clock
func NewStreakTracker(store StreakStore, clock utils.Clock) *StreakTracker {
	return &StreakTracker{store: store, clock: clock}
}

// Get returns the stored streak without evaluating lapses. A streak that was
// broken is only reset by the next RecordActivity.
func (t *StreakTracker) Get(ctx context.Context) (models.Streak, error) {
	s, err := t.store.GetStreak(ctx)
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to get streak: %w", err)
	}
	return s, nil
}

// RecordActivity marks today as active. It is idempotent within a day.
func (t *StreakTracker) RecordActivity(ctx context.Context) (models.Streak, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	today := utils.DateString(now)
	s, err := t.store.UpdateStreak(ctx, func(cur models.Streak) (models.Streak, bool) {
		next, changed := Advance(cur, today)
		if changed {
			next.UpdatedAt = now
		}
		return next, changed
	})
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to update streak: %w", err)
	}
	logger.Debug("Recorded activity", "date", today, "current_streak", s.CurrentStreak)
	return s, nil
}

// Advance applies one day of activity on today to s. It reports false when s
// already counts today. A last active date that is neither today nor yesterday,
// including one in the future, starts a new streak of 1.
func Advance(s models.Streak, today string) (models.Streak, bool) {
	if s.LastActiveDate == today {
		return s, false
	}

	next := s
	yesterday, err := utils.PreviousDate(today)
	if err == nil && s.LastActiveDate == yesterday {
		next.CurrentStreak = s.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActiveDate = today
	return next, true
}
