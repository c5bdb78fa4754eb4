package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/savemigrate/internal/db"
	testhelpers "github.com/vvka-141/savemigrate/internal/testing"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

func TestPostgresStore_Integration(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	dbName := "savemigrate_test_store"
	t.Cleanup(testhelpers.CreateTestDB(t, connString, dbName))

	pool := testhelpers.GetTestPoolWithNoticeCapture(t, connString, dbName)
	s, err := NewPostgresStore(db.NewPoolAdapter(pool.Pool, nil), savemigrate.DefaultTableName)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx))
	assert.False(t, pool.Capture.Contains("already exists"))
	require.NoError(t, s.EnsureSchema(ctx))
	assert.True(t, pool.Capture.Contains("already exists, skipping"), "second CREATE TABLE IF NOT EXISTS is a no-op")

	first := time.Date(2026, 3, 1, 12, 0, 0, 123000, time.UTC)
	require.NoError(t, s.Upsert(ctx, "bob", []byte("P1"), first))
	require.NoError(t, s.Upsert(ctx, "bob", []byte("P2"), first.Add(time.Minute)))
	require.NoError(t, s.Upsert(ctx, "alice", []byte{0xDE, 0xAD}, first))

	bob, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []byte("P2"), bob.SaveData)
	assert.True(t, bob.LastUpdated.Equal(first.Add(time.Minute)), "got %v", bob.LastUpdated)

	_, err = s.Get(ctx, "nobody")
	assert.True(t, errors.Is(err, savemigrate.ErrRecordNotFound))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alice", infos[0].Username)
	assert.Equal(t, int64(2), infos[0].Size)
	assert.Equal(t, "bob", infos[1].Username)
}
