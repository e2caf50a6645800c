package models

import (
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
)

// Settings represents the singleton user settings row
type Settings struct {
	WeeklyTarget       int                   `json:"weekly_target"`        // completions per week the user aims for
	CurrentEnergyLevel constants.EnergyLevel `json:"current_energy_level"` // most recently reported level
	UpdatedAt          time.Time             `json:"updated_at"`
}

// Streak represents the singleton consecutive-days activity counter
type Streak struct {
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActiveDate string    `json:"last_active_date,omitempty"` // YYYY-MM-DD format, empty when never active
	UpdatedAt      time.Time `json:"updated_at"`
}
