package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalSourceDir accepts zero or one source_dir argument.
// Without it the directory comes from savemigrate.yaml or the default.
func OptionalSourceDir(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf(`accepts at most 1 arg(s), received %d

Usage: %s

Example:
  %s data/players/main`, len(args), cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
