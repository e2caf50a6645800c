package constants

import "time"

// EnergyLevel represents a self-reported energy reading
type EnergyLevel string

// Effort represents the expected effort of a project step
type Effort string

// Category represents the classification of a brain dump entry
type Category string

const (
	AppName            = "sanctuary"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/sanctuary"
	DefaultDBName      = "sanctuary.db"
	ConfigFileName     = "config.yaml"
	Version            = "v0.1.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "sanctuary-"
	BackupFileSuffix = ".db"

	// Server lock constants
	ServerLockfileName = "sanctuary-server.lock"
	ShutdownTimeout    = 10 * time.Second

	// Energy Level constants
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"

	// Effort constants
	EffortQuick  Effort = "quick"
	EffortMedium Effort = "medium"
	EffortHeavy  Effort = "heavy"

	// Category constants
	CategoryTask     Category = "task"
	CategoryIdea     Category = "idea"
	CategoryNote     Category = "note"
	CategoryReminder Category = "reminder"

	// Activity sources recorded against the streak
	ActivityEnergy    = "energy"
	ActivityAnchor    = "anchor"
	ActivityStep      = "project_step"
	ActivityBrainDump = "brain_dump"
)

// EnergyLevels lists the valid energy levels from lowest to highest
var EnergyLevels = []EnergyLevel{EnergyLow, EnergyMedium, EnergyHigh}

// Efforts lists the valid step efforts
var Efforts = []Effort{EffortQuick, EffortMedium, EffortHeavy}

// Categories lists the valid brain dump categories
var Categories = []Category{CategoryTask, CategoryIdea, CategoryNote, CategoryReminder}

// Valid reports whether l is a known energy level
func (l EnergyLevel) Valid() bool {
	for _, v := range EnergyLevels {
		if v == l {
			return true
		}
	}
	return false
}

// Valid reports whether e is a known effort
func (e Effort) Valid() bool {
	for _, v := range Efforts {
		if v == e {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
