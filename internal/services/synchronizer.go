package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/savemigrate/internal/checksum"
	"github.com/vvka-141/savemigrate/internal/files/filesystem"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// Synchronizer copies the save files of one directory into a SaveStore.
//
// Thread-Safety: NOT safe for concurrent Synchronize() calls on the same instance.
type Synchronizer struct {
	store     savemigrate.SaveStore
	fs        filesystem.FileSystemProvider
	checksums checksum.Calculator
	logger    savemigrate.Logger
	now       func() time.Time
	extension string
	dryRun    bool
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithExtension sets the save file suffix. Defaults to ".sav".
func WithExtension(ext string) SyncOption {
	return func(s *Synchronizer) { s.extension = ext }
}

// WithClock replaces time.Now as the source of last_updated values.
func WithClock(now func() time.Time) SyncOption {
	return func(s *Synchronizer) { s.now = now }
}

// WithDryRun reads and reports files without writing them. The store may be nil.
func WithDryRun(dryRun bool) SyncOption {
	return func(s *Synchronizer) { s.dryRun = dryRun }
}

// NewSynchronizer creates a Synchronizer. Panics on nil dependencies; store may
// only be nil in dry-run mode.
func NewSynchronizer(
	store savemigrate.SaveStore,
	fs filesystem.FileSystemProvider,
	checksums checksum.Calculator,
	logger savemigrate.Logger,
	opts ...SyncOption,
) *Synchronizer {
	s := &Synchronizer{
		store:     store,
		fs:        fs,
		checksums: checksums,
		logger:    logger,
		now:       time.Now,
		extension: savemigrate.DefaultSaveExtension,
	}
	for _, opt := range opts {
		opt(s)
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
	if store == nil && !s.dryRun {
		panic("store cannot be nil")
	}
	if s.now == nil {
		panic("clock cannot be nil")
	}
	return s
}

// Synchronize upserts every file of sourceDir whose name ends in the save
// extension, in listing order. Per-file failures are recorded in the summary
// and never stop the loop. A directory that cannot be listed ends the run
// with Summary.DirectoryErr set and a nil error. The only error returned is
// the context's, checked before each file.
func (s *Synchronizer) Synchronize(ctx context.Context, sourceDir string) (*savemigrate.Summary, error) {
	summary := savemigrate.NewSummary(sourceDir, s.now())
	s.logger.Verbose("Run %s: reading save files from %s", summary.RunID, sourceDir)

	entries, err := s.fs.ReadDir(sourceDir)
	if err != nil {
		summary.DirectoryErr = fmt.Errorf("%w: %s: %w", savemigrate.ErrDirectoryRead, sourceDir, err)
		summary.FinishedAt = s.now()
		s.logger.Error("Error reading save files: %v", err)
		return summary, nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = s.now()
			s.logger.Error("Migration interrupted after %d file(s): %v", len(summary.Results), err)
			return summary, err
		}

		username, ok := savemigrate.UsernameFromFileName(entry.Name(), s.extension)
		if !ok {
			summary.Skipped++
			continue
		}

		result := s.migrateFile(ctx, sourceDir, entry.Name(), username)
		summary.Results = append(summary.Results, result)
	}

	summary.FinishedAt = s.now()
	s.logCompletion(summary)
	return summary, nil
}

func (s *Synchronizer) migrateFile(ctx context.Context, dir, fileName, username string) savemigrate.FileResult {
	result := savemigrate.FileResult{FileName: fileName, Username: username}

	if err := savemigrate.ValidateUsername(username); err != nil {
		return s.fail(result, err)
	}

	data, err := s.fs.ReadFile(s.fs.Join(dir, fileName))
	if err != nil {
		return s.fail(result, fmt.Errorf("%w: %w", savemigrate.ErrFileRead, err))
	}
	result.Size = int64(len(data))
	result.Checksum = s.checksums.Calculate(data)

	if s.dryRun {
		result.Status = savemigrate.FilePlanned
		s.logger.Info("Would migrate: %s as '%s' (%d bytes)", fileName, username, result.Size)
		return result
	}

	if err := s.store.Upsert(ctx, username, data, s.now()); err != nil {
		return s.fail(result, fmt.Errorf("%w: %w", savemigrate.ErrUpsertFailed, err))
	}

	result.Status = savemigrate.FileMigrated
	s.logger.Info("✓ Successfully migrated: %s", fileName)
	s.logger.Verbose("  %s -> '%s' (%d bytes, sha256 %s)", fileName, username, result.Size, checksum.Short(result.Checksum))
	return result
}

func (s *Synchronizer) fail(result savemigrate.FileResult, err error) savemigrate.FileResult {
	result.Status = savemigrate.FileFailed
	result.Err = err
	s.logger.Error("Failed to migrate: %s: %v", result.FileName, err)
	return result
}

func (s *Synchronizer) logCompletion(summary *savemigrate.Summary) {
	if s.dryRun {
		s.logger.Info("Dry run completed: %d file(s) would be migrated, %d failed, %d skipped",
			summary.Planned(), summary.Failed(), summary.Skipped)
		return
	}
	s.logger.Info("✓ Migration completed: %d migrated, %d failed, %d skipped in %s",
		summary.Migrated(), summary.Failed(), summary.Skipped, summary.Duration().Round(time.Millisecond))
}
