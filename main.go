package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	v1 "chatvendas/api/v1"
	"chatvendas/internal/app"
	"chatvendas/internal/config"
)

func main() {
	flags := pflag.NewFlagSet("chatvendas", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "fichier de configuration YAML")
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Erreur configuration:", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run sert l'API pendant l'ingestion; une ingestion en échec arrête le serveur
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	v1.NewHandlers(a.Service, a.Gate, a.Stats, a.Exporter, a.ChartDir, logger).Routes(r)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		logger.Info("starting HTTP server", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if _, err := a.Ingest(egctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("ingestion failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
