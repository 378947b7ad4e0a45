// Command verifier-server serves batch email verification over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sanketagarwal/email-verifier/internal/api"
	"github.com/sanketagarwal/email-verifier/internal/app"
	"github.com/sanketagarwal/email-verifier/internal/config"
	"github.com/sanketagarwal/email-verifier/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "verifier-server:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, "stdout")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := app.NewResolver(cfg.Resolver, log)
	if err != nil {
		return err
	}

	shared, err := app.NewSharedCache(ctx, cfg.Cache, time.Minute, log)
	if err != nil {
		return fmt.Errorf("shared cache: %w", err)
	}
	if shared != nil {
		defer shared.Close()
	}

	v := app.NewVerifier(cfg, resolver, shared, log)
	h := api.NewHandlers(v, cfg.Server.MaxBatchSize, app.BatchOptions(cfg), log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(h, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("resolver", cfg.Resolver.Mode),
			zap.String("cache", cfg.Cache.Type),
			zap.Int("max_batch_size", cfg.Server.MaxBatchSize),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
