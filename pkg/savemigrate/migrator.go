package savemigrate

import "context"

// Migrator runs a full migration: schema first, then the directory.
type Migrator interface {
	// Migrate returns ErrSchemaFailed (wrapped) if the table could not be
	// created; otherwise it returns the run summary and a nil error, even when
	// individual files or the directory listing failed.
	Migrate(ctx context.Context, config MigrationConfig) (*Summary, error)
}
