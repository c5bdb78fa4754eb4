package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_ReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.sav"), []byte{0xBE, 0xEF}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.sav"), []byte{0xDE, 0xAD}, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.sav"), []byte{0x00}, 0644))

	fsys := NewOSFileSystem()
	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"alice.sav", "bob.sav", "nested"}, names)
}

func TestOSFileSystem_ReadDir_NonexistentPath(t *testing.T) {
	fsys := NewOSFileSystem()

	_, err := fsys.ReadDir(filepath.Join(t.TempDir(), "nonexistent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFileSystem_ReadFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "alice.sav")
	expected := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, os.WriteFile(filePath, expected, 0644))

	fsys := NewOSFileSystem()
	data, err := fsys.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, expected, data)
}

func TestOSFileSystem_ReadFile_Nonexistent(t *testing.T) {
	fsys := NewOSFileSystem()

	_, err := fsys.ReadFile(filepath.Join(t.TempDir(), "missing.sav"))
	assert.Error(t, err)
}

func TestOSFileSystem_Join(t *testing.T) {
	fsys := NewOSFileSystem()
	assert.Equal(t, filepath.Join("data", "alice.sav"), fsys.Join("data", "alice.sav"))
}
