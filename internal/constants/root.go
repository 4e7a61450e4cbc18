package constants

const (
	AppName           = "tally"
	DefaultConfigPath = "~/.config/tally/tally.db"
	Version           = "v0.3.0"

	// MemoryConfigPath selects the in-memory store, mostly useful for demos and tests
	MemoryConfigPath = ":memory:"

	// TimestampFormat is used for updated_at columns and export headers
	TimestampFormat = "2006-01-02T15:04:05Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"

	// Session constants
	SessionLockfileName = "tally.lock"
	LogDirName          = "logs"
	LogFileName         = "tally.log"
)
