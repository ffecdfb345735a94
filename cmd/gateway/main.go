package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/Jaya3110/Stress-Detection-Video-analysis/internal/adapters/http"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/bootstrap"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/config"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("gateway", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	router := httpadapter.NewRouter(cfg, app.Analyzer, app.Metrics).Handler()
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
		// Write timeout has to cover a full engine round-trip.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: cfg.EngineTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("gateway_listening", "port", cfg.APIPort, "engine_url", cfg.EngineURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("gateway server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("gateway_shutdown_error", "error", err)
	}
}
