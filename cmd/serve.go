package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rizwanu321/BillMate24-sub000/internal/adapters/web"
	"github.com/Rizwanu321/BillMate24-sub000/internal/app"
	"github.com/Rizwanu321/BillMate24-sub000/internal/config"
	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
	"github.com/Rizwanu321/BillMate24-sub000/internal/db"
	"github.com/Rizwanu321/BillMate24-sub000/internal/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the BillMate HTTP API on the configured port.

Required environment variables:
  DATABASE_URL - Postgres connection string
  JWT_SECRET   - signing secret for session tokens`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "Listen port (overrides SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, wholesalers)
	shopkeepers := core.NewShopkeeperService(pool)

	svc := app.NewAppService(shopkeepers, bills, customers, wholesalers, reports)
	handler := web.NewHandler(svc, cfg.AllowedOrigins, cfg.JWTSecret)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
