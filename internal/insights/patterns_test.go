package insights

import (
	"testing"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

func logAt(level constants.EnergyLevel, t time.Time) models.EnergyLog {
	return models.EnergyLog{Level: level, LoggedAt: t}
}

func TestComputePatterns_Empty(t *testing.T) {
	got := ComputePatterns(nil, time.UTC)
	if got == nil || len(got) != 0 {
		t.Errorf("ComputePatterns(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestComputePatterns_DominantLevel(t *testing.T) {
	// 2026-03-02 is a Monday
	mon9 := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)

	tests := []struct {
		name   string
		levels []constants.EnergyLevel
		want   constants.EnergyLevel
	}{
		{"single low", []constants.EnergyLevel{"low"}, constants.EnergyLow},
		{"majority high", []constants.EnergyLevel{"high", "high", "low"}, constants.EnergyHigh},
		{"majority low", []constants.EnergyLevel{"low", "low", "medium"}, constants.EnergyLow},
		{"high ties medium", []constants.EnergyLevel{"high", "medium"}, constants.EnergyHigh},
		{"high ties low", []constants.EnergyLevel{"low", "high"}, constants.EnergyHigh},
		{"medium ties low", []constants.EnergyLevel{"low", "medium"}, constants.EnergyMedium},
		{"three way tie", []constants.EnergyLevel{"low", "medium", "high"}, constants.EnergyHigh},
		{"medium over high", []constants.EnergyLevel{"medium", "medium", "high"}, constants.EnergyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.EnergyLog
			for i, l := range tt.levels {
				logs = append(logs, logAt(l, mon9.Add(time.Duration(i)*time.Minute)))
			}
			got := ComputePatterns(logs, time.UTC)
			if len(got) != 1 {
				t.Fatalf("got %d buckets, want 1", len(got))
			}
			p := got[0]
			if p.DayOfWeek != 1 || p.Hour != 9 {
				t.Errorf("bucket = (%d, %d), want (1, 9)", p.DayOfWeek, p.Hour)
			}
			if p.Count != len(tt.levels) {
				t.Errorf("Count = %d, want %d", p.Count, len(tt.levels))
			}
			if p.DominantLevel != tt.want {
				t.Errorf("DominantLevel = %s, want %s", p.DominantLevel, tt.want)
			}
		})
	}
}

func TestComputePatterns_UsesLocalZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// Monday 03:00 UTC is Sunday 22:00 in New York
	logs := []models.EnergyLog{logAt(constants.EnergyLow, time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC))}

	got := ComputePatterns(logs, ny)
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1", len(got))
	}
	if got[0].DayOfWeek != 0 || got[0].Hour != 22 {
		t.Errorf("bucket = (%d, %d), want (0, 22)", got[0].DayOfWeek, got[0].Hour)
	}
}

func TestComputePatterns_OrderAndCounts(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // Sunday
	logs := []models.EnergyLog{
		logAt(constants.EnergyHigh, base.AddDate(0, 0, 3).Add(14*time.Hour)),
		logAt(constants.EnergyLow, base.Add(8*time.Hour)),
		logAt(constants.EnergyHigh, base.AddDate(0, 0, 3).Add(14*time.Hour+30*time.Minute)),
		logAt(constants.EnergyMedium, base.Add(7*time.Hour)),
		logAt(constants.EnergyMedium, base.AddDate(0, 0, 7).Add(7*time.Hour)), // next Sunday, same bucket
		logAt("sleepy", base.Add(7*time.Hour)),
	}

	got := ComputePatterns(logs, time.UTC)
	want := []models.EnergyPattern{
		{DayOfWeek: 0, Hour: 7, DominantLevel: constants.EnergyMedium, Count: 2},
		{DayOfWeek: 0, Hour: 8, DominantLevel: constants.EnergyLow, Count: 1},
		{DayOfWeek: 3, Hour: 14, DominantLevel: constants.EnergyHigh, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(got), len(want), got)
	}
	total := 0
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
		total += got[i].Count
	}
	if total != 5 {
		t.Errorf("bucket counts sum to %d, want the 5 valid logs", total)
	}
}

func TestPeakAndRestTime(t *testing.T) {
	patterns := []models.EnergyPattern{
		{DayOfWeek: 0, Hour: 9, DominantLevel: constants.EnergyHigh, Count: 2},
		{DayOfWeek: 1, Hour: 6, DominantLevel: constants.EnergyLow, Count: 3},
		{DayOfWeek: 2, Hour: 10, DominantLevel: constants.EnergyHigh, Count: 4},
		{DayOfWeek: 4, Hour: 10, DominantLevel: constants.EnergyHigh, Count: 4},
		{DayOfWeek: 5, Hour: 21, DominantLevel: constants.EnergyLow, Count: 3},
		{DayOfWeek: 6, Hour: 12, DominantLevel: constants.EnergyMedium, Count: 9},
	}

	peak := PeakEnergyTime(patterns)
	if peak == nil || peak.DayOfWeek != 2 || peak.Hour != 10 {
		t.Errorf("PeakEnergyTime() = %+v, want first of the tied (2, 10)", peak)
	}
	rest := RestTime(patterns)
	if rest == nil || rest.DayOfWeek != 1 || rest.Hour != 6 {
		t.Errorf("RestTime() = %+v, want first of the tied (1, 6)", rest)
	}

	if PeakEnergyTime(patterns[5:]) != nil {
		t.Error("PeakEnergyTime() without high buckets should be nil")
	}
	if RestTime(nil) != nil {
		t.Error("RestTime(nil) should be nil")
	}
}

func TestBuildInsights(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	logs := []models.EnergyLog{
		logAt(constants.EnergyHigh, base),
		logAt(constants.EnergyLow, base.Add(12*time.Hour)),
	}
	got := BuildInsights(logs, time.UTC, 14)
	if got.Days != 14 || len(got.Patterns) != 2 {
		t.Fatalf("BuildInsights() = %+v", got)
	}
	if got.Peak == nil || got.Peak.Hour != 9 {
		t.Errorf("Peak = %+v, want hour 9", got.Peak)
	}
	if got.Rest == nil || got.Rest.Hour != 21 {
		t.Errorf("Rest = %+v, want hour 21", got.Rest)
	}
}

func TestDominantLevel(t *testing.T) {
	now := time.Now()
	if got := DominantLevel(nil); got != "" {
		t.Errorf("DominantLevel(nil) = %q, want empty", got)
	}
	logs := []models.EnergyLog{logAt(constants.EnergyLow, now), logAt(constants.EnergyLow, now), logAt(constants.EnergyHigh, now)}
	if got := DominantLevel(logs); got != constants.EnergyLow {
		t.Errorf("DominantLevel() = %s, want low", got)
	}
}
