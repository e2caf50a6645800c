// Package insights derives patterns, streaks and momentum from stored activity.
// Nothing here writes to storage except the streak tracker.
package insights

import (
	"sort"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

type bucketKey struct {
	day  int
	hour int
}

type levelCounts struct {
	low, medium, high int
}

func (c *levelCounts) add(level constants.EnergyLevel) {
	switch level {
	case constants.EnergyLow:
		c.low++
	case constants.EnergyMedium:
		c.medium++
	case constants.EnergyHigh:
		c.high++
	}
}

func (c levelCounts) total() int {
	return c.low + c.medium + c.high
}

// dominant picks the majority level. Ties resolve toward the higher level.
func (c levelCounts) dominant() constants.EnergyLevel {
	switch {
	case c.high >= c.medium && c.high >= c.low:
		return constants.EnergyHigh
	case c.medium >= c.low:
		return constants.EnergyMedium
	default:
		return constants.EnergyLow
	}
}

// ComputePatterns groups logs by the weekday and hour of LoggedAt in loc and
// reports the dominant level of each non-empty bucket. The result is ordered
// by (DayOfWeek, Hour). Logs with an unknown level are ignored.
func ComputePatterns(logs []models.EnergyLog, loc *time.Location) []models.EnergyPattern {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[bucketKey]*levelCounts)
	for _, l := range logs {
		if !l.Level.Valid() {
			continue
		}
		t := l.LoggedAt.In(loc)
		key := bucketKey{day: int(t.Weekday()), hour: t.Hour()}
		c, ok := buckets[key]
		if !ok {
			c = &levelCounts{}
			buckets[key] = c
		}
		c.add(l.Level)
	}

	patterns := make([]models.EnergyPattern, 0, len(buckets))
	for key, c := range buckets {
		patterns = append(patterns, models.EnergyPattern{
			DayOfWeek:     key.day,
			Hour:          key.hour,
			DominantLevel: c.dominant(),
			Count:         c.total(),
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].DayOfWeek != patterns[j].DayOfWeek {
			return patterns[i].DayOfWeek < patterns[j].DayOfWeek
		}
		return patterns[i].Hour < patterns[j].Hour
	})
	return patterns
}

// DominantLevel returns the majority level across logs, or "" for no logs
func DominantLevel(logs []models.EnergyLog) constants.EnergyLevel {
	var c levelCounts
	for _, l := range logs {
		c.add(l.Level)
	}
	if c.total() == 0 {
		return ""
	}
	return c.dominant()
}

// PeakEnergyTime returns the high-energy bucket with the most logs
func PeakEnergyTime(patterns []models.EnergyPattern) *models.EnergyPattern {
	return busiest(patterns, constants.EnergyHigh)
}

// RestTime returns the low-energy bucket with the most logs
func RestTime(patterns []models.EnergyPattern) *models.EnergyPattern {
	return busiest(patterns, constants.EnergyLow)
}

// busiest expects patterns in (day, hour) order; the earliest bucket wins a tie
func busiest(patterns []models.EnergyPattern, level constants.EnergyLevel) *models.EnergyPattern {
	var best *models.EnergyPattern
	for i := range patterns {
		p := patterns[i]
		if p.DominantLevel != level {
			continue
		}
		if best == nil || p.Count > best.Count {
			best = &p
		}
	}
	return best
}

// BuildInsights computes the patterns for logs and their peak and rest times
func BuildInsights(logs []models.EnergyLog, loc *time.Location, days int) models.EnergyInsights {
	patterns := ComputePatterns(logs, loc)
	return models.EnergyInsights{
		Days:     days,
		Patterns: patterns,
		Peak:     PeakEnergyTime(patterns),
		Rest:     RestTime(patterns),
	}
}
