package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/savemigrate/internal/checksum"
	"github.com/vvka-141/savemigrate/internal/files/filesystem"
	"github.com/vvka-141/savemigrate/internal/logging"
	"github.com/vvka-141/savemigrate/internal/services"
	"github.com/vvka-141/savemigrate/internal/store"
	"github.com/vvka-141/savemigrate/internal/tui"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the records stored in the save table",
	Long: `Status lists every record in the save table with its payload size and
the time it was last written. Payloads are not downloaded.

Examples:
  savemigrate status -d game
  savemigrate status --connection sqlite://saves.db --table legacy_saves`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

type statusFlagValues struct {
	conn       connectionFlags
	table      string
	configPath string
	timeout    time.Duration
}

var statusFlags statusFlagValues

func init() {
	rootCmd.AddCommand(statusCmd)

	registerConnectionFlags(statusCmd, &statusFlags.conn)

	statusCmd.Flags().StringVar(&statusFlags.table, "table", "",
		"Table to list (default: table in savemigrate.yaml, then player_saves)")
	statusCmd.Flags().StringVar(&statusFlags.configPath, "config", "",
		"Path to savemigrate.yaml or the directory holding it (default: current directory)")
	statusCmd.Flags().DurationVar(&statusFlags.timeout, "timeout", time.Minute,
		"Give up if the listing takes longer than this")
}

func runStatus(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(statusFlags.configPath)
	if err != nil {
		return err
	}

	var fileTable string
	if projectCfg != nil {
		fileTable = projectCfg.Table
	}
	table := firstNonEmpty(statusFlags.table, fileTable, savemigrate.DefaultTableName)

	conn, err := resolveConnectionFromFlags(statusFlags.conn, projectCfg)
	if err != nil {
		return err
	}
	if verbose {
		printResolvedConnection(os.Stderr, conn)
	}

	logger := logging.NewConsoleLogger(verbose)
	svc := services.NewMigrationService(
		store.NewOpener(logger).Open,
		filesystem.NewOSFileSystem(),
		checksum.New(),
		logger,
	)

	ctx, stop := withInterrupt(context.Background(), "status")
	defer stop()
	if statusFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, statusFlags.timeout)
		defer cancel()
	}

	records, err := svc.Status(ctx, conn, table)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer(tui.DetectMode()).Records(table, records))
	return nil
}
