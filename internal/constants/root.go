package constants

import "time"

const (
	AppName            = "silentstreak"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/silentstreak/silentstreak.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// SilenceDaysSlot is the storage slot holding the encoded day-record collection
	SilenceDaysSlot = "silence_days"

	// BlobVersion is the schema version written into every persisted blob
	BlobVersion = 1

	// KeyringTarget selects the connection string stored in the OS keyring
	KeyringTarget = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "silentstreak-"

	// Lock constants
	LockfileName    = "silentstreak.lock"
	LockMaxRetries  = 3
	LockRetryDelay  = 100 * time.Millisecond
	LastSevenDays   = 7
	DefaultLogLimit = 30
)

// Achievement thresholds
const (
	StreakThresholdShort = 3
	StreakThresholdLong  = 7
	SilentDaysMilestone  = 30
)

// Default configuration values
const (
	DefaultTimezone  = "Local" // Use system local timezone by default
	DefaultWeekStart = "sunday"
)
