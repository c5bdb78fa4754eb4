//go:build conntest

package conntest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/savemigrate/internal/db"
	"github.com/vvka-141/savemigrate/internal/logging"
	"github.com/vvka-141/savemigrate/internal/store"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

func TestStandard_Connect(t *testing.T) {
	config := parseStdConnString(t)

	pool := connectWithConfig(t, config)
	pingSucceeds(t, pool)
	assert.Equal(t, "postgres", currentUser(t, pool))
}

func TestStandard_WrongPassword(t *testing.T) {
	config := parseStdConnString(t)
	config.Password = "definitely-wrong"

	connector, err := db.NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, savemigrate.ErrConnectionFailed))
}

func TestStandard_UnknownDatabase(t *testing.T) {
	config := parseStdConnString(t)
	config.Database = "no_such_database"

	connector, err := db.NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_database")
}

func TestStandard_OpenStoreRoundTrip(t *testing.T) {
	config := parseStdConnString(t)
	ctx := context.Background()

	s, err := store.NewOpener(logging.NewNullLogger()).Open(ctx, config, "conntest_saves")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Upsert(ctx, "alice", []byte{0xDE, 0xAD}, time.Now()))

	rec, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, rec.SaveData)
}
