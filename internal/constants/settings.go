package constants

const (
	// Default Settings Values
	DefaultWeeklyTarget  = 35
	DefaultCurrentEnergy = EnergyMedium
	DefaultTimezone      = "Local" // Use system local timezone by default
	DefaultPatternDays   = 14
	MaxPatternDays       = 365
	TopTagLimit          = 5

	// Server defaults
	DefaultServerAddr    = ":5000"
	DefaultRateLimit     = 120
	DefaultBodyLimitKB   = 256
	DefaultAllowedOrigin = "*"

	// Job defaults (cron expressions, evaluated in the configured timezone)
	DefaultDailySummaryCron = "55 23 * * *"
	DefaultBackupCron       = "0 3 * * *"
)
