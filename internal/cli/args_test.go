package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

func TestOptionalSourceDir(t *testing.T) {
	cmd := &cobra.Command{
		Use: "migrate [source_dir]",
	}

	t.Run("accepts no args", func(t *testing.T) {
		if err := OptionalSourceDir(cmd, []string{}); err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	t.Run("accepts one arg", func(t *testing.T) {
		if err := OptionalSourceDir(cmd, []string{"data/players/main"}); err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	t.Run("returns usage error when too many args", func(t *testing.T) {
		err := OptionalSourceDir(cmd, []string{"a", "b"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "accepts at most 1 arg") {
			t.Errorf("expected error to contain 'accepts at most 1 arg', got: %s", err.Error())
		}
		if !strings.Contains(err.Error(), "Example:") {
			t.Errorf("expected error to contain 'Example:', got: %s", err.Error())
		}
		if code := savemigrate.ExitCodeForError(err); code != savemigrate.ExitUsageError {
			t.Errorf("expected exit code %d, got %d", savemigrate.ExitUsageError, code)
		}
	})
}
