// Package cmd provides CLI commands for plaid-sync.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "plaid-sync",
	Short: "Sync linked bank accounts to the local ledger",
	Long: `plaid-sync is the headless core of a personal-finance app. It links
bank accounts through the Plaid aggregation API, keeps each item's
access token in the OS credential vault, and persists items, accounts,
and transactions in local JSON ledger files.

It supports:
- Serving the sync flows to a UI process over a localhost HTTP API
- One-shot transaction syncs for a date window
- Preventing duplicate syncs (append-only ledger, SQLite history)
- A local sandbox that emulates the aggregation API

Example:
  plaid-sync serve
  plaid-sync sync --from 2024-01-01 --to 2024-01-31
  plaid-sync stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sandboxCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
