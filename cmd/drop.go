package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/config"
)

var dropForce bool

// dropCmd deletes the SQLite database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the SQLite stats database",
	Long:  "Permanently delete the SQLite stats database. All players, games and box scores stored in it will be lost.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(_ *cobra.Command, _ []string) error {
	if cfg.Backend != config.BackendSQLite {
		return fmt.Errorf("drop only applies to the sqlite backend, current backend is %q", cfg.Backend)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DB)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DB); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(cfg.DB + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
	return nil
}
