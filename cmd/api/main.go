package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-variants/config"
	"storefront-variants/internal/delivery/http/middleware"
	v1 "storefront-variants/internal/delivery/http/v1"
	"storefront-variants/internal/infrastructure/cache"
	"storefront-variants/internal/usecase"
	"storefront-variants/pkg/logger"

	"github.com/NYTimes/gziphandler"
)

const (
	serviceName = "variant-editor"
	version     = "0.1.0"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel)

	// Sessions live for SessionTTL unless touched; expired entries are swept
	// at half that interval.
	memCache := cache.NewMemoryCache(cfg.SessionTTL, cfg.SessionTTL/2)

	editorUC := usecase.NewVariantEditorUsecase(memCache, cfg)
	editorHandler := v1.NewVariantEditorHandler(editorUC)
	configHandler := v1.NewConfigHandler()

	mux := http.NewServeMux()
	editorHandler.Routes(mux)
	mux.HandleFunc("GET /api/v1/config/enums", configHandler.GetEnums)

	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
