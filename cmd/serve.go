package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kevin07696/billing-service/internal/handlers/cron"
	"github.com/kevin07696/billing-service/pkg/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cron trigger and metrics HTTP servers",
	Long: "Serves the scheduler-facing charge trigger endpoint and the Prometheus " +
		"metrics endpoint, shutting both down gracefully on SIGINT/SIGTERM.",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.close()

	zlog := a.logger.Zap()

	chargeHandler := cron.NewChargeHandler(a.charges, zlog, a.cfg.Server.CronSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("/cron/charge-recurrent", chargeHandler.RunCharge)
	mux.HandleFunc("/cron/health", chargeHandler.HealthCheck)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsServer := observability.NewMetricsServer(a.cfg.Server.MetricsPort)

	go func() {
		zlog.Info("metrics server listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		zlog.Info("cron server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("cron server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("cron server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics server shutdown failed", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}
