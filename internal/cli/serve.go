package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/adapters/otel"
	"github.com/emiliopalmerini/billheat/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the bill summary web server.

Examples:
  billheat serve              # Start on BILLHEAT_PORT (default 8080)
  billheat serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

const shutdownTimeout = 5 * time.Second

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides BILLHEAT_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if servePort != 0 {
		app.Config.Port = servePort
	}

	metrics, err := otel.New(ctx, app.Config.Telemetry)
	if err != nil {
		app.Logger.Warn("Metrics export disabled", "err", err)
		metrics = otel.NewNoOpExporter()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = metrics.Close(shutdownCtx)
	}()

	server, err := web.NewServer(app.Config, app.Logger, app.Bills, app.Preferences, metrics)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return server.Start(ctx)
}
