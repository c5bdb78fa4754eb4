package savemigrate

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := migrator.Migrate(ctx, config)
//	if errors.Is(err, savemigrate.ErrSchemaFailed) {
//	    // nothing was migrated
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSchemaFailed indicates the save table could not be created.
	// It is the only error that aborts a migration before any file is touched.
	ErrSchemaFailed = errors.New("schema creation failed")

	// ErrDirectoryRead indicates the source directory could not be listed.
	ErrDirectoryRead = errors.New("source directory unreadable")

	// ErrFileRead indicates a single save file could not be read.
	ErrFileRead = errors.New("save file unreadable")

	// ErrUpsertFailed indicates a single save record could not be written.
	ErrUpsertFailed = errors.New("upsert failed")

	// ErrInvalidUsername indicates the username derived from a file name is unusable
	// (empty, or longer than MaxUsernameLength).
	ErrInvalidUsername = errors.New("invalid username")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnsupportedDriver indicates the requested database driver is not supported.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrRecordNotFound indicates no save record exists for a username.
	ErrRecordNotFound = errors.New("save record not found")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrSchemaFailed):
		return ExitSchemaFailed
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedAuthMethod),
		errors.Is(err, ErrUnsupportedDriver):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInterrupted
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	// Cobra reports flag and argument misuse with these prefixes.
	if strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "accepts ") ||
		strings.HasPrefix(errStr, "required flag") ||
		strings.HasPrefix(errStr, "invalid argument") {
		return ExitUsageError
	}

	return ExitGeneralError
}
