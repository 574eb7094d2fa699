package constants

import "time"

const (
	AppName            = "tandem"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tandem/tandem.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is the storage format for timestamps
	TimestampFormat = time.RFC3339

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "tandem-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "app.tandemhq.tandem"

	// Review rating bounds
	MinRating = 1
	MaxRating = 5
)

// StreakMilestones are the fixed streak thresholds eligible for a one-time
// celebration, in ascending order.
var StreakMilestones = []int{5, 10, 20, 50}
