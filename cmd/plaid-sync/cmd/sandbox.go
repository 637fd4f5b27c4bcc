package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/knagata/plaid-ledger/internal/sandbox"
	"github.com/knagata/plaid-ledger/pkg/config"
)

var (
	sandboxPort string
	sandboxDB   string
)

// sandboxCmd represents the sandbox command.
var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local aggregation-API emulator",
	Long: `Run a local emulator of the aggregation API with canned institution
data. Point PLAID_API_URL at it to develop and test without real
credentials.

Example:
  plaid-sync sandbox --port 8080
  PLAID_API_URL=http://localhost:8080 plaid-sync serve`,
	Run: runSandbox,
}

func init() {
	sandboxCmd.Flags().StringVar(&sandboxPort, "port", "8080", "Port to listen on")
	sandboxCmd.Flags().StringVar(&sandboxDB, "db", "./data/sandbox.db", "Path to the sandbox database")
}

func runSandbox(cmd *cobra.Command, args []string) {
	// The sandbox logs JSON; it runs as a server, not an interactive tool.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	clientID := cfg.Plaid.ClientID
	secret := cfg.Plaid.Secret
	if clientID == "" {
		clientID = "sandbox-client"
	}
	if secret == "" {
		secret = "sandbox-secret"
	}

	server, err := sandbox.NewServer(sandboxDB, clientID, secret)
	exitOnError(err, "failed to initialize sandbox")
	defer func() {
		if err := server.Close(); err != nil {
			slog.Error("failed to close sandbox store", "error", err)
		}
	}()

	addr := fmt.Sprintf("127.0.0.1:%s", sandboxPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("sandbox listening", "addr", addr, "db", sandboxDB)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("sandbox failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down sandbox")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
