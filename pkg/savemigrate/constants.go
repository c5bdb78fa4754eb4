package savemigrate

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0   // Migration ran (individual files may still have failed)
	ExitGeneralError    = 1   // Unknown or unclassified error
	ExitUsageError      = 2   // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3   // Internal panic (unexpected crash)
	ExitConfigError     = 10  // Invalid configuration
	ExitConnectionError = 11  // Failed to connect to database
	ExitSchemaFailed    = 20  // Save table could not be created
	ExitInterrupted     = 130 // Cancelled by signal or timeout
)

const (
	// DefaultSourceDir is the directory scanned when none is configured.
	DefaultSourceDir = "data/players/main"

	// DefaultSaveExtension is the suffix that marks a save file.
	DefaultSaveExtension = ".sav"

	// DefaultTableName is the table save records are written to.
	DefaultTableName = "player_saves"

	// MaxUsernameLength matches the VARCHAR(255) username column.
	MaxUsernameLength = 255

	// MaxTableNameLength is the PostgreSQL identifier limit, the smallest of the supported drivers.
	MaxTableNameLength = 63

	// DefaultTimeout guards the whole run against hangs in any I/O call.
	DefaultTimeout = 30 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the database used when a connection string names none.
	DefaultManagementDB = "postgres"

	// DefaultAppName is reported to PostgreSQL as application_name.
	DefaultAppName = "savemigrate"
)
