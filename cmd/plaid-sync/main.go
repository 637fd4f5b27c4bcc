// Package main is the entry point for the plaid-sync CLI.
package main

import (
	"os"

	"github.com/knagata/plaid-ledger/cmd/plaid-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
