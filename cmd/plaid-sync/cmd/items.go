package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/pkg/config"
)

// itemsCmd represents the items command.
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List linked institutions",
	Long: `List the linked institutions with their accounts.

Example:
  plaid-sync items`,
	Run: runItems,
}

func runItems(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	s, cleanup, err := buildSyncer(cfg)
	exitOnError(err, "failed to initialize")
	defer cleanup()

	items := s.Items()
	if len(items) == 0 {
		fmt.Println("No linked institutions")
		return
	}

	for _, item := range items {
		fmt.Printf("%s  %s (%s)  status=%s  last updated %s\n",
			item.ID, item.InstitutionName, item.InstitutionID, item.Status, item.LastUpdated)

		for _, account := range s.GetAccounts(item.ID) {
			current := "-"
			if account.Balance.Current != nil {
				current = account.Balance.Current.StringFixed(2)
			}
			fmt.Printf("    %-32s ****%s  %s/%s  %s %s\n",
				account.Name, account.Mask, account.Type, account.Subtype,
				current, account.Balance.ISOCurrencyCode)
		}
	}
}
