package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sir_venger/imgserve/internal/app/imagehttp"
	"github.com/sir_venger/imgserve/internal/config"
	"github.com/sir_venger/imgserve/internal/imagestore"
)

const shutdownTimeout = 15 * time.Second

// main поднимает сервер изображений; ненулевой код выхода только при ошибке старта.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	// log.Fatal и прочие вызовы пакета log тоже идут через slog.
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatal(err)
	}
}

// run обслуживает запросы до отмены ctx и возвращает nil после graceful shutdown.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := config.EnsureImageDir(cfg.ImageDir); err != nil {
		return err
	}

	store, err := imagestore.New(cfg.ImageDir, imagestore.DefaultExtensions)
	if err != nil {
		return err
	}

	// Слушаем до запуска, чтобы ошибка bind (порт занят) завершала процесс сразу.
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	server := &http.Server{
		Handler:           imagehttp.New(cfg, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	logger.Info("server running", "url", "http://localhost"+cfg.Addr())
	logger.Info("serving images", "dir", cfg.ImageDir, "rate_limit", cfg.RateLimit)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server stopped")
	return nil
}
