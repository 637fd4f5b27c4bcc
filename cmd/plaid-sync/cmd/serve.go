package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/internal/api"
	"github.com/knagata/plaid-ledger/pkg/config"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sync API for the UI process",
	Long: `Serve the sync flows as a JSON request/response API on localhost.

The UI process calls this API for all bank-data operations: creating a
link token, exchanging a public token, listing items, refreshing
balances, fetching transactions, and unlinking.

Example:
  plaid-sync serve
  PORT=9000 plaid-sync serve`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
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

	addr := fmt.Sprintf("127.0.0.1:%s", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(s),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("serving sync API", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
