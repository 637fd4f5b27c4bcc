package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/pkg/config"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display sync statistics",
	Long: `Display statistics about synced transactions.

Shows:
- Total number of synced transactions
- Total number of sync runs
- Last sync timestamp

Example:
  plaid-sync stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	s, cleanup, err := buildSyncer(cfg)
	exitOnError(err, "failed to initialize")
	defer cleanup()

	stats, err := s.Stats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Sync Statistics ===")
	fmt.Printf("Total synced transactions: %d\n", stats.TotalTransactions)
	fmt.Printf("Total sync runs:           %d\n", stats.TotalRuns)

	if stats.LastSync.Valid {
		fmt.Printf("Last sync:                 %s\n", stats.LastSync.String)
	} else {
		fmt.Printf("Last sync:                 (never)\n")
	}

	fmt.Println()
}
