package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

type fakeMomentumSource struct {
	completionDates []string
	stepTimes       []time.Time
	settings        models.Settings
	streak          models.Streak
	err             error
}

func (f *fakeMomentumSource) CountAnchorCompletions(ctx context.Context, fromDate, toDate string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, d := range f.completionDates {
		if d >= fromDate && d <= toDate {
			n++
		}
	}
	return n, nil
}

func (f *fakeMomentumSource) CountCompletedSteps(ctx context.Context, from, to time.Time) (int, error) {
	n := 0
	for _, t := range f.stepTimes {
		if !t.Before(from) && t.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeMomentumSource) GetSettings(ctx context.Context) (models.Settings, error) {
	return f.settings, nil
}

func (f *fakeMomentumSource) GetStreak(ctx context.Context) (models.Streak, error) {
	return f.streak, nil
}

func TestMomentumCalculator_Compute(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	at := func(day, hour, min int) time.Time {
		return time.Date(2026, 3, day, hour, min, 0, 0, ny)
	}
	// Wednesday afternoon; the week began Sunday 2026-03-01
	now := at(4, 15, 0)

	source := &fakeMomentumSource{
		completionDates: []string{"2026-02-28", "2026-03-01", "2026-03-04", "2026-03-04"},
		stepTimes: []time.Time{
			at(4, 10, 0),                  // today
			at(3, 23, 30),                 // this week
			at(1, 0, 0),                   // week start is inclusive
			at(1, 0, 0).Add(-time.Second), // Saturday night, previous week
			now.Add(-time.Millisecond),    // just now
		},
		streak: models.Streak{CurrentStreak: 4, LongestStreak: 6},
	}

	got, err := NewMomentumCalculator(source, utils.FixedClock{T: now}).Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	want := models.MomentumData{
		CompletedToday:   4, // 2 anchors + 2 steps
		WeeklyCompletion: 7, // 3 anchors + 4 steps
		WeeklyTarget:     35,
		Streak:           4,
	}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestMomentumCalculator_SundayMidnight(t *testing.T) {
	now := time.Date(2026, 3, 8, 0, 30, 0, 0, time.UTC) // Sunday
	source := &fakeMomentumSource{
		completionDates: []string{"2026-03-07", "2026-03-08"},
		stepTimes:       []time.Time{time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)},
		settings:        models.Settings{WeeklyTarget: 10},
	}

	got, err := NewMomentumCalculator(source, utils.FixedClock{T: now}).Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got.CompletedToday != 1 || got.WeeklyCompletion != 1 {
		t.Errorf("Compute() = %+v, want only Sunday's completion counted", got)
	}
	if got.WeeklyTarget != 10 {
		t.Errorf("WeeklyTarget = %d, want stored 10", got.WeeklyTarget)
	}
}

func TestMomentumCalculator_Empty(t *testing.T) {
	got, err := NewMomentumCalculator(&fakeMomentumSource{}, utils.FixedClock{T: time.Now()}).Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got != (models.MomentumData{WeeklyTarget: 35}) {
		t.Errorf("Compute() on empty data = %+v", got)
	}
}

func TestMomentumCalculator_PropagatesStoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := NewMomentumCalculator(&fakeMomentumSource{err: boom}, utils.FixedClock{T: time.Now()}).Compute(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Compute() error = %v, want %v", err, boom)
	}
}
