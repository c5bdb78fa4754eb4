package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/savemigrate/internal/logging"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

func TestOpener_SQLite(t *testing.T) {
	logger := logging.NewMemoryLogger()
	conn := &savemigrate.ConnectionConfig{
		Driver:   savemigrate.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "saves.db"),
	}
	ctx := context.Background()

	s, err := NewOpener(logger).Open(ctx, conn, savemigrate.DefaultTableName)
	require.NoError(t, err)
	defer s.Close()

	sqlStore, ok := s.(*SQLStore)
	require.True(t, ok)
	assert.Equal(t, savemigrate.DriverSQLite, sqlStore.Driver())

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Upsert(ctx, "alice", []byte{1, 2, 3}, time.Now()))

	rec, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, rec.SaveData)
	assert.True(t, logger.Contains(logging.LevelVerbose, "opening sqlite database"))
	assert.True(t, logger.Contains(logging.LevelVerbose, "sqlite store ready for table player_saves"))
}

func TestOpener_RejectsBadTable(t *testing.T) {
	conn := &savemigrate.ConnectionConfig{Driver: savemigrate.DriverSQLite, Database: ":memory:"}

	_, err := NewOpener(logging.NewNullLogger()).Open(context.Background(), conn, "no-dashes")
	assert.True(t, errors.Is(err, savemigrate.ErrInvalidConfig))
}

func TestOpener_UnsupportedDriver(t *testing.T) {
	conn := &savemigrate.ConnectionConfig{Driver: savemigrate.Driver("oracle")}

	_, err := NewOpener(logging.NewNullLogger()).Open(context.Background(), conn, savemigrate.DefaultTableName)
	assert.True(t, errors.Is(err, savemigrate.ErrUnsupportedDriver))
}

func TestOpener_SQLiteWithoutDatabase(t *testing.T) {
	conn := &savemigrate.ConnectionConfig{Driver: savemigrate.DriverSQLite}

	_, err := NewOpener(logging.NewNullLogger()).Open(context.Background(), conn, savemigrate.DefaultTableName)
	assert.True(t, errors.Is(err, savemigrate.ErrInvalidConfig))
}

func TestNewOpener_NilLogger(t *testing.T) {
	assert.Panics(t, func() { NewOpener(nil) })
}
