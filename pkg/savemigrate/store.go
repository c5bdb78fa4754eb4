package savemigrate

import (
	"context"
	"time"
)

// SaveStore is the single database handle shared by schema creation and
// synchronization. Implementations exist for PostgreSQL, MySQL and SQLite.
type SaveStore interface {
	// EnsureSchema creates the save table if it does not exist. Idempotent.
	EnsureSchema(ctx context.Context) error

	// Upsert inserts the record for username, or replaces save_data and
	// last_updated if one exists. It is one atomic statement.
	Upsert(ctx context.Context, username string, data []byte, updatedAt time.Time) error

	// Get returns the record for username or ErrRecordNotFound.
	Get(ctx context.Context, username string) (*SaveRecord, error)

	// List returns every record ordered by username. SaveData is left nil;
	// Size carries its length.
	List(ctx context.Context) ([]RecordInfo, error)

	// Close releases the underlying connection pool.
	Close() error
}

// RecordInfo describes a stored record without its payload.
type RecordInfo struct {
	ID          int64
	Username    string
	Size        int64
	LastUpdated time.Time
}

// StoreOpener opens a SaveStore for a connection and table name.
type StoreOpener func(ctx context.Context, conn *ConnectionConfig, table string) (SaveStore, error)
