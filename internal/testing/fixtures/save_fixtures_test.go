package fixtures

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliceAndBob(t *testing.T) {
	fs := AliceAndBob()

	entries, err := fs.ReadDir(SaveDirRoot)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice.sav", entries[0].Name())
	assert.Equal(t, "bob.sav", entries[1].Name())

	data, err := fs.ReadFile(fs.Join(SaveDirRoot, "alice.sav"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, data)
}

func TestMixed_ListsEveryEntry(t *testing.T) {
	entries, err := Mixed().ReadDir(SaveDirRoot)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{".sav", "a.sav.sav", "alice.sav", "archive.sav", "notes.txt", "savage.sav.bak"}, names)
}

func TestSaveDirBuilder_AddUnreadable(t *testing.T) {
	boom := errors.New("permission denied")
	fs := NewSaveDirBuilder().AddUnreadable("bob", boom).Build()

	entries, err := fs.ReadDir(SaveDirRoot)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = fs.ReadFile(fs.Join(SaveDirRoot, "bob.sav"))
	assert.ErrorIs(t, err, boom)
}

func TestEmpty(t *testing.T) {
	entries, err := Empty().ReadDir(SaveDirRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
