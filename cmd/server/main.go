package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heybuddy/internal/app/server/api"
	"heybuddy/internal/app/server/config"
	"heybuddy/internal/infrastructure/storage/postgres"
	"heybuddy/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: api.New(cfg, storage, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "address", cfg.Server.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
