// Command server runs the whoisit game API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/louisbranch/whoisit/internal/api/rest"
	"github.com/louisbranch/whoisit/internal/catalog"
	"github.com/louisbranch/whoisit/internal/game/autosave"
	"github.com/louisbranch/whoisit/internal/game/service"
	"github.com/louisbranch/whoisit/internal/platform/config"
	"github.com/louisbranch/whoisit/internal/platform/otel"
	"github.com/louisbranch/whoisit/internal/storage"
	bboltstore "github.com/louisbranch/whoisit/internal/storage/bbolt"
	sqlitestore "github.com/louisbranch/whoisit/internal/storage/sqlite"
)

// Config holds server configuration.
type Config struct {
	Addr           string        `env:"WHOISIT_ADDR" envDefault:":8080"`
	StorageDriver  string        `env:"WHOISIT_STORAGE_DRIVER" envDefault:"bbolt"`
	StoragePath    string        `env:"WHOISIT_STORAGE_PATH" envDefault:"whoisit.db"`
	CatalogBaseURL string        `env:"WHOISIT_CATALOG_URL" envDefault:"https://whoisit.app/data"`
	Locale         string        `env:"WHOISIT_LOCALE" envDefault:"en"`
	AutosaveWindow time.Duration `env:"WHOISIT_AUTOSAVE_WINDOW" envDefault:"300ms"`
}

func main() {
	log.SetPrefix("[WHOISIT] ")

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address")
	flag.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "The session store path")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}

func run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "whoisit-server")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	saver := autosave.New(store, cfg.AutosaveWindow, func(err error) {
		log.Printf("autosave: %v", err)
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := saver.Close(closeCtx); err != nil {
			log.Printf("close autosave: %v", err)
		}
	}()

	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}

	game := service.New(store, saver, catalogClient, cfg.Locale)
	handler := rest.New(game)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (storage: %s %s)", cfg.Addr, cfg.StorageDriver, cfg.StoragePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(cfg Config) (storage.SessionStore, error) {
	switch cfg.StorageDriver {
	case "bbolt":
		return bboltstore.Open(cfg.StoragePath)
	case "sqlite":
		return sqlitestore.Open(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
