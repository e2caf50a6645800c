package models

import (
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
)

// EnergyLog is a single self-reported energy reading. Logs are immutable.
type EnergyLog struct {
	ID       int64                 `json:"id"`
	Level    constants.EnergyLevel `json:"level"`
	Note     string                `json:"note,omitempty"`
	LoggedAt time.Time             `json:"logged_at"`
}

// EnergyPattern summarizes the energy logs that fall into one (weekday, hour) bucket
type EnergyPattern struct {
	DayOfWeek     int                   `json:"day_of_week"` // 0 = Sunday
	Hour          int                   `json:"hour"`        // 0-23, local time
	DominantLevel constants.EnergyLevel `json:"dominant_level"`
	Count         int                   `json:"count"`
}

// EnergyInsights bundles the pattern buckets with the derived peak and rest times.
// Peak and Rest are nil when no bucket has that dominant level.
type EnergyInsights struct {
	Days     int             `json:"days"`
	Patterns []EnergyPattern `json:"patterns"`
	Peak     *EnergyPattern  `json:"peak_energy_time,omitempty"`
	Rest     *EnergyPattern  `json:"rest_time,omitempty"`
}

// EnergyState is the current energy level as stored in settings
type EnergyState struct {
	Level constants.EnergyLevel `json:"level"`
}
