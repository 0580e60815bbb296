package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/ai"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/api"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/config"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, logger)
	if err != nil {
		logger.Fatalf("failed to open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	if !cfg.AIEnabled() {
		logger.Warnf("AI_API_KEY not set, chat will use offline replies")
	}
	responder := ai.NewResponder(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout, logger)

	app := api.NewApp(logger, store, responder)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(app, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Infof("%s %s listening on %s (backend=%s)", api.ServiceName, api.ServiceVersion, srv.Addr, store.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}
