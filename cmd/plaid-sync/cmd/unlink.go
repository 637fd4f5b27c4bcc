package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/pkg/config"
)

// unlinkCmd represents the unlink command.
var unlinkCmd = &cobra.Command{
	Use:   "unlink <item-id>",
	Short: "Unlink an institution",
	Long: `Unlink an institution: revoke the connection with the aggregator,
remove the access token from the credential vault, and drop the item
and its accounts from the ledger.

Previously fetched transactions are retained; the ledger keeps its
history.

Example:
  plaid-sync unlink item_1`,
	Args: cobra.ExactArgs(1),
	Run:  runUnlink,
}

func runUnlink(cmd *cobra.Command, args []string) {
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

	removed, err := s.RemoveItem(args[0])
	exitOnError(err, "failed to unlink item")

	if removed {
		fmt.Printf("Unlinked %s\n", args[0])
	}
	slog.Info("Unlink completed", "item_id", args[0])
}
