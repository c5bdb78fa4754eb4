package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// SchemaEnsurer guarantees the save table exists before any file is migrated.
type SchemaEnsurer struct {
	store  savemigrate.SaveStore
	table  string
	logger savemigrate.Logger
}

// NewSchemaEnsurer creates a SchemaEnsurer for table in store.
// Panics if store or logger is nil.
func NewSchemaEnsurer(store savemigrate.SaveStore, table string, logger savemigrate.Logger) *SchemaEnsurer {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SchemaEnsurer{store: store, table: table, logger: logger}
}

// EnsureSchema creates the table if needed. Every failure wraps
// ErrSchemaFailed and is fatal to the run; it is never retried.
// A cancelled context is reported as such so the caller exits as interrupted.
func (e *SchemaEnsurer) EnsureSchema(ctx context.Context) error {
	e.logger.Verbose("Ensuring table '%s' exists", e.table)

	if err := e.store.EnsureSchema(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("interrupted while creating table '%s': %w", e.table, ctxErr)
		}
		e.logger.Error("Error ensuring table '%s' exists: %v", e.table, err)
		return fmt.Errorf("%w: %w", savemigrate.ErrSchemaFailed, err)
	}

	e.logger.Info("✓ Table '%s' is ready", e.table)
	return nil
}
