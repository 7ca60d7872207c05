package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appanalysis "github.com/bryanwahyu/textlens/internal/application/analysis"
	"github.com/bryanwahyu/textlens/internal/infra/httpserver"
	"github.com/bryanwahyu/textlens/internal/logger"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func serve(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg
	client := newInferenceClient(cfg)
	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
	defer limiter.Close()

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis:     newAnalysisService(cfg, client, appanalysis.WithOutcomeHook(metrics.RecordOutcome)),
		Tagging:      newTaggingService(cfg),
		Metrics:      metrics,
		Limiter:      limiter,
		Health:       map[string]middleware.HealthChecker{"inference": client},
		APIKeys:      cfg.Server.APIKeys,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"provider": cfg.Inference.Provider,
			"model":    cfg.Inference.Model,
			"backend":  cfg.Inference.BaseURL,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("shutdown error: %v", err)
		return err
	}
	return nil
}
