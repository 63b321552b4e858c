package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/aouyang1/imageslider/api"
	"github.com/aouyang1/imageslider/api/client"
	"github.com/aouyang1/imageslider/carousel"
	"github.com/aouyang1/imageslider/config"
	"github.com/aouyang1/imageslider/store"
)

const shutdownTimeout = 5 * time.Second

func newSource(ctx context.Context, cfg config.Config) (carousel.Source, error) {
	switch cfg.Source {
	case config.SourceUnsplash:
		return client.NewUnsplashClient(cfg.UnsplashBaseURL, cfg.UnsplashAccessKey, &http.Client{}), nil
	case config.SourceS3:
		return api.NewRemoteSource(ctx, cfg.AWSProfile, cfg.S3Bucket)
	case config.SourceLocal:
		return api.NewLocalSource(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown image source %q", cfg.Source)
	}
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := store.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	source, err := newSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s image source: %v", cfg.Source, err)
	}
	slog.Info("using image source", "source", cfg.Source)

	// Initialize and start web server
	webServer := api.NewWebServer(database, source, clock.New())
	errCh := make(chan error, 1)
	go func() {
		errCh <- webServer.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		webServer.Close()
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		slog.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error while shutting down web server", "error", err)
		}
	}
}
