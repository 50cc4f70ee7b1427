package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/service"
	pkgdb "github.com/Skotchmaster/shop_api/pkg/db"
	"github.com/Skotchmaster/shop_api/pkg/events"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx = logging.IntoContext(ctx, logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := pkgdb.Close(db); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}()

	if err := repo.Migrate(db); err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := events.NewProducer(brokers)
		if err != nil {
			return err
		}
		pub = producer
		logger.Info("kafka_enabled", "brokers", brokers)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}()

	var index service.ProductIndex
	if cfg.Elastic.URL != "" {
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		idx, err := openIndex(esCtx, cfg.Elastic)
		cancel()
		if err != nil {
			logger.Warn("elasticsearch_disabled", "error", err)
		} else {
			index = idx
			logger.Info("elasticsearch_enabled", "index", cfg.Elastic.Index)
		}
	}

	svc := service.New(&repo.GormRepo{DB: db}, pub, index, cfg)
	if err := svc.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return err
	}

	e := httpserver.New(logger, httpserver.NewDeps(svc, db, cfg.ServiceName))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting_down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}

	logger.Info("shutdown_complete")
	return nil
}

func openIndex(ctx context.Context, cfg config.ElasticConfig) (*search.Index, error) {
	client, err := search.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	idx := search.NewIndex(client, cfg.Index)
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}
