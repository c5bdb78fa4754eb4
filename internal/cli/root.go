package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "savemigrate",
	Short: "Copy player save files into a database table",
	Long: `savemigrate copies per-user save files from a directory into rows of a
database table, creating the table if it does not exist.

Each file named <username>.sav becomes one row keyed by <username>. Running
it again overwrites the stored bytes and refreshes last_updated; records are
never deleted.

Supported databases: PostgreSQL (default), MySQL, SQLite.

Exit Codes:
  0   - Success (individual files may still have failed, see the summary)
  1   - General error
  2   - CLI usage error (invalid arguments or flags)
  3   - Panic or unexpected system error
  10  - Invalid configuration
  11  - Database connection failed
  20  - Save table could not be created
  130 - Interrupted or timed out`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for savemigrate")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
