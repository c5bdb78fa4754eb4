package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/savemigrate/internal/tui"
)

// resetFlags restores every flag of cmd and its children to its default.
// Flag values are package-level globals that persist across Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// isolateEnv clears variables that would otherwise select a database.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SAVEMIGRATE_CONNECTION_STRING", "DATABASE_URL",
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"MYSQL_PWD", "AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
	} {
		t.Setenv(name, "")
	}
	t.Setenv(tui.NonInteractiveEnvVar, "1")
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// workspace is a temporary save directory, database file and empty config directory.
type workspace struct {
	saves     string
	dbPath    string
	configDir string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	w := &workspace{
		saves:     filepath.Join(root, "players"),
		dbPath:    filepath.Join(root, "saves.db"),
		configDir: filepath.Join(root, "config"),
	}
	require.NoError(t, os.MkdirAll(w.saves, 0o755))
	require.NoError(t, os.MkdirAll(w.configDir, 0o755))
	return w
}

func (w *workspace) write(t *testing.T, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.saves, name), data, 0o644))
}

func (w *workspace) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.configDir, "savemigrate.yaml"), []byte(content), 0o644))
}

func (w *workspace) conn() string {
	return "sqlite://" + w.dbPath
}

func (w *workspace) exec(t *testing.T, query string) {
	t.Helper()
	handle, err := sql.Open("sqlite", w.dbPath)
	require.NoError(t, err)
	defer handle.Close()
	_, err = handle.Exec(query)
	require.NoError(t, err)
}

func (w *workspace) records(t *testing.T, table string) map[string][]byte {
	t.Helper()
	handle, err := sql.Open("sqlite", w.dbPath)
	require.NoError(t, err)
	defer handle.Close()

	rows, err := handle.Query(`SELECT username, save_data FROM ` + table)
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var name string
		var data []byte
		require.NoError(t, rows.Scan(&name, &data))
		out[name] = data
	}
	require.NoError(t, rows.Err())
	return out
}
