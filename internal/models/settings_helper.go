package models

import "github.com/julianstephens/sanctuary/internal/constants"

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.WeeklyTarget <= 0 {
		settings.WeeklyTarget = constants.DefaultWeeklyTarget
	}
	if settings.CurrentEnergyLevel == "" {
		settings.CurrentEnergyLevel = constants.DefaultCurrentEnergy
	}
}

// DefaultSettings returns a settings value populated with defaults
func DefaultSettings() Settings {
	s := Settings{}
	ApplyDefaultSettings(&s)
	return s
}
