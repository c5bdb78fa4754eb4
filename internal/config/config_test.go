package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
source_dir: data/players/main
extension: .sav
table: player_saves
timeout: 10m
connection:
  host: db.internal
  port: 5433
  username: game
  database: saves
  sslmode: require
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "data/players/main", cfg.SourceDir)
	assert.Equal(t, ".sav", cfg.Extension)
	assert.Equal(t, "player_saves", cfg.Table)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "game", cfg.Connection.Username)
	assert.Equal(t, "saves", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_FromFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection:\n  driver: sqlite\n  dsn: saves.db\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Connection.Driver)
	assert.Equal(t, "saves.db", cfg.Connection.DSN)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "connection: [unclosed\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestTimeoutDuration(t *testing.T) {
	var nilCfg *ProjectConfig
	d, err := nilCfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = (&ProjectConfig{}).TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = (&ProjectConfig{Timeout: "soon"}).TimeoutDuration()
	assert.Error(t, err)
}
