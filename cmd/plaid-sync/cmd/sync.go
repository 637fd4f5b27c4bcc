package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/pkg/config"
)

var (
	dateFrom string
	dateTo   string
	itemID   string
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch transactions into the local ledger",
	Long: `Fetch transactions for a date window and merge them into the local
ledger. Transactions already present (by ID) are skipped; the ledger is
append-only.

By default every linked item is synced; use --item to sync one.

Example:
  plaid-sync sync --from 2024-01-01 --to 2024-01-31
  plaid-sync sync --from 2024-01-01 --to 2024-01-31 --item item_1`,
	Run: runSync,
}

func init() {
	// Flags
	syncCmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD) (required)")
	syncCmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD) (required)")
	syncCmd.Flags().StringVar(&itemID, "item", "", "Sync only this item")

	syncCmd.MarkFlagRequired("from")
	syncCmd.MarkFlagRequired("to")
}

func runSync(cmd *cobra.Command, args []string) {
	slog.Info("Starting sync", "from", dateFrom, "to", dateTo)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"plaid", "clientId"},
		[]string{"plaid", "secret"},
		[]string{"plaid", "apiUrl"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	s, cleanup, err := buildSyncer(cfg)
	exitOnError(err, "failed to initialize")
	defer cleanup()

	items := s.Items()
	if itemID != "" {
		kept := items[:0]
		for _, item := range items {
			if item.ID == itemID {
				kept = append(kept, item)
			}
		}
		items = kept
		if len(items) == 0 {
			exitOnError(fmt.Errorf("no linked item with id %s", itemID), "unknown item")
		}
	}

	if len(items) == 0 {
		fmt.Println("No linked items to sync")
		return
	}

	total := 0
	for _, item := range items {
		transactions, err := s.GetTransactions(item.ID, dateFrom, dateTo)
		if err != nil {
			slog.Error("Failed to sync item", "item_id", item.ID, "institution", item.InstitutionName, "error", err)
			continue
		}

		fmt.Printf("%-24s %-28s %d transactions\n", item.ID, item.InstitutionName, len(transactions))
		total += len(transactions)
	}

	// Display final statistics
	stats, err := s.Stats()
	if err == nil {
		fmt.Println("\n=== Sync Statistics ===")
		fmt.Printf("Transactions fetched this run: %d\n", total)
		fmt.Printf("Total synced transactions:     %d\n", stats.TotalTransactions)
		fmt.Printf("Total sync runs:               %d\n", stats.TotalRuns)
		if stats.LastSync.Valid {
			fmt.Printf("Last sync:                     %s\n", stats.LastSync.String)
		}
		fmt.Println()
	}

	slog.Info("Sync completed", "items", len(items), "fetched", total)
}
