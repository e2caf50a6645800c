package insights

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/models"
)

type memStreakStore struct {
	mu     sync.Mutex
	streak models.Streak
	writes int
}

func (m *memStreakStore) GetStreak(ctx context.Context) (models.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streak, nil
}

func (m *memStreakStore) UpdateStreak(ctx context.Context, fn func(models.Streak) (models.Streak, bool)) (models.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, changed := fn(m.streak)
	if !changed {
		return m.streak, nil
	}
	m.streak = next
	m.writes++
	return next, nil
}

// movableClock is a test clock whose instant can be advanced
type movableClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *movableClock) Location() *time.Location { return c.t.Location() }

func (c *movableClock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name        string
		in          models.Streak
		today       string
		want        models.Streak
		wantChanged bool
	}{
		{
			name:        "first activity",
			in:          models.Streak{},
			today:       "2026-03-04",
			want:        models.Streak{CurrentStreak: 1, LongestStreak: 1, LastActiveDate: "2026-03-04"},
			wantChanged: true,
		},
		{
			name:  "same day is a no-op",
			in:    models.Streak{CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2026-03-04"},
			today: "2026-03-04",
			want:  models.Streak{CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2026-03-04"},
		},
		{
			name:        "consecutive day extends",
			in:          models.Streak{CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2026-03-03"},
			today:       "2026-03-04",
			want:        models.Streak{CurrentStreak: 4, LongestStreak: 5, LastActiveDate: "2026-03-04"},
			wantChanged: true,
		},
		{
			name:        "extending past longest raises it",
			in:          models.Streak{CurrentStreak: 5, LongestStreak: 5, LastActiveDate: "2026-02-28"},
			today:       "2026-03-01",
			want:        models.Streak{CurrentStreak: 6, LongestStreak: 6, LastActiveDate: "2026-03-01"},
			wantChanged: true,
		},
		{
			name:        "gap resets to one",
			in:          models.Streak{CurrentStreak: 5, LongestStreak: 7, LastActiveDate: "2026-03-01"},
			today:       "2026-03-04",
			want:        models.Streak{CurrentStreak: 1, LongestStreak: 7, LastActiveDate: "2026-03-04"},
			wantChanged: true,
		},
		{
			name:        "future last active date resets",
			in:          models.Streak{CurrentStreak: 2, LongestStreak: 2, LastActiveDate: "2026-03-09"},
			today:       "2026-03-04",
			want:        models.Streak{CurrentStreak: 1, LongestStreak: 2, LastActiveDate: "2026-03-04"},
			wantChanged: true,
		},
		{
			name:        "year boundary",
			in:          models.Streak{CurrentStreak: 9, LongestStreak: 9, LastActiveDate: "2025-12-31"},
			today:       "2026-01-01",
			want:        models.Streak{CurrentStreak: 10, LongestStreak: 10, LastActiveDate: "2026-01-01"},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Advance(tt.in, tt.today)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if got != tt.want {
				t.Errorf("Advance() = %+v, want %+v", got, tt.want)
			}
			if got.CurrentStreak > got.LongestStreak {
				t.Errorf("current %d exceeds longest %d", got.CurrentStreak, got.LongestStreak)
			}
		})
	}
}

func TestStreakTracker_RecordActivity(t *testing.T) {
	ctx := context.Background()
	store := &memStreakStore{}
	clock := &movableClock{t: time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)}
	tracker := NewStreakTracker(store, clock)

	for i := 0; i < 3; i++ {
		s, err := tracker.RecordActivity(ctx)
		if err != nil {
			t.Fatalf("RecordActivity() error = %v", err)
		}
		if s.CurrentStreak != 1 {
			t.Fatalf("CurrentStreak = %d after repeated same-day activity, want 1", s.CurrentStreak)
		}
	}
	if store.writes != 1 {
		t.Errorf("store written %d times, want 1", store.writes)
	}

	clock.set(time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC))
	s, err := tracker.RecordActivity(ctx)
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if s.CurrentStreak != 2 || s.LastActiveDate != "2026-03-05" {
		t.Errorf("streak = %+v, want 2 on 2026-03-05", s)
	}
	if !s.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt, clock.Now())
	}
}

func TestStreakTracker_StaleReadUntilNextActivity(t *testing.T) {
	ctx := context.Background()
	store := &memStreakStore{streak: models.Streak{CurrentStreak: 4, LongestStreak: 4, LastActiveDate: "2026-03-01"}}
	clock := &movableClock{t: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)}
	tracker := NewStreakTracker(store, clock)

	s, err := tracker.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.CurrentStreak != 4 {
		t.Errorf("Get() = %d, want the stale stored value 4", s.CurrentStreak)
	}

	s, err = tracker.RecordActivity(ctx)
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 4 {
		t.Errorf("after lapse streak = %+v, want current 1 longest 4", s)
	}
}

func TestStreakTracker_LocalDate(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	ctx := context.Background()
	store := &memStreakStore{}
	// 2026-03-04 20:00 UTC is already 2026-03-05 in Tokyo
	clock := &movableClock{t: time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC).In(tokyo)}

	s, err := NewStreakTracker(store, clock).RecordActivity(ctx)
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if s.LastActiveDate != "2026-03-05" {
		t.Errorf("LastActiveDate = %s, want local date 2026-03-05", s.LastActiveDate)
	}
}

func TestStreakTracker_ConcurrentSameDay(t *testing.T) {
	ctx := context.Background()
	store := &memStreakStore{streak: models.Streak{CurrentStreak: 2, LongestStreak: 2, LastActiveDate: "2026-03-03"}}
	tracker := NewStreakTracker(store, &movableClock{t: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.RecordActivity(ctx); err != nil {
				t.Errorf("RecordActivity() error = %v", err)
			}
		}()
	}
	wg.Wait()

	s, _ := tracker.Get(ctx)
	if s.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d after concurrent activity, want 3", s.CurrentStreak)
	}
}
