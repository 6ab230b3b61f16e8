package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/internal/cli"
	"github.com/aretw0/dreamboard/internal/sanitize"
	httpAdapter "github.com/aretw0/dreamboard/pkg/adapters/http"
	"github.com/aretw0/dreamboard/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the board as a JSON API with server-sent events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.CreateLogger(cfg.LogLevel)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		board, err := cli.NewBoard(cfg, logger, dreamboard.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			return err
		}
		defer board.Close()

		maxInput, _ := cmd.Flags().GetInt("max-input")
		api := httpAdapter.NewServer(board,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMaxInputSize(maxInput),
			httpAdapter.WithAssetDir(assetDir(cfg.Personas)),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
		defer api.Close()

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: api,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Dreamboard server listening", "address", srv.Addr, "personas", len(board.Personas()), "backend", cfg.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sc.Done():
			logger.Info("Start shutdown", "signal", sc.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Dreamboard server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "P", 8080, "Port to listen on")
	serveCmd.Flags().Int("max-input", sanitize.DefaultMaxSize, "Maximum dream size in bytes accepted by PUT /input")
}

// assetDir resolves image paths next to a custom roster file.
func assetDir(personasPath string) string {
	if personasPath == "" {
		return ""
	}
	return filepath.Dir(personasPath)
}
