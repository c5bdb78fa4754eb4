package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/savemigrate/internal/checksum"
	"github.com/vvka-141/savemigrate/internal/files/filesystem"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// MigrationService implements savemigrate.Migrator.
type MigrationService struct {
	openStore savemigrate.StoreOpener
	fs        filesystem.FileSystemProvider
	checksums checksum.Calculator
	logger    savemigrate.Logger
	now       func() time.Time
}

// NewMigrationService creates a MigrationService with all dependencies injected.
// Panics on nil dependencies: they are programmer errors, not runtime conditions.
func NewMigrationService(
	openStore savemigrate.StoreOpener,
	fs filesystem.FileSystemProvider,
	checksums checksum.Calculator,
	logger savemigrate.Logger,
) *MigrationService {
	if openStore == nil {
		panic("openStore cannot be nil")
	}
	if fs == nil {
		panic("fs cannot be nil")
	}
	if checksums == nil {
		panic("checksums cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &MigrationService{
		openStore: openStore,
		fs:        fs,
		checksums: checksums,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the time source used for last_updated. Intended for tests.
func (s *MigrationService) SetClock(now func() time.Time) {
	s.now = now
}

// Migrate opens the store, ensures the table exists and synchronizes the
// source directory. Connection and schema failures are returned; per-file
// and directory failures are only reported in the summary.
func (s *MigrationService) Migrate(ctx context.Context, config savemigrate.MigrationConfig) (*savemigrate.Summary, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	opts := []SyncOption{WithExtension(config.Extension), WithClock(s.now)}

	if config.DryRun {
		s.logger.Info("Dry run: no database changes will be made")
		return NewSynchronizer(nil, s.fs, s.checksums, s.logger, append(opts, WithDryRun(true))...).
			Synchronize(ctx, config.SourceDir)
	}

	store, err := s.openStore(ctx, config.Connection, config.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to open save store: %w", err)
	}
	defer store.Close()

	if err := NewSchemaEnsurer(store, config.Table, s.logger).EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return NewSynchronizer(store, s.fs, s.checksums, s.logger, opts...).Synchronize(ctx, config.SourceDir)
}

// Status lists the records stored in table.
func (s *MigrationService) Status(ctx context.Context, conn *savemigrate.ConnectionConfig, table string) ([]savemigrate.RecordInfo, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection is required: %w", savemigrate.ErrInvalidConfig)
	}

	store, err := s.openStore(ctx, conn, table)
	if err != nil {
		return nil, fmt.Errorf("failed to open save store: %w", err)
	}
	defer store.Close()

	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return records, nil
}

var _ savemigrate.Migrator = (*MigrationService)(nil)
