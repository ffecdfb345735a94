package bootstrap

import (
	"fmt"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/config"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/ports"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/usecase"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/infrastructure/engine"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/infrastructure/resilience"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/infrastructure/storage/localfs"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/observability/metrics"
)

type App struct {
	Config   config.Config
	Analyzer ports.VideoAnalyzer
	Metrics  *metrics.HTTPServerMetrics
}

func New(cfg config.Config) (*App, error) {
	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init video storage: %w", err)
	}

	execCfg := resilience.DefaultConfig()
	execCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	execCfg.RetryInitialBackoff = cfg.RetryInitialBackoff
	execCfg.BreakerEnabled = cfg.BreakerEnabled
	exec := resilience.NewExecutor(execCfg)

	engineClient := engine.New(cfg.EngineURL, cfg.EngineTimeout, exec)

	return &App{
		Config:   cfg,
		Analyzer: usecase.NewAnalyzeVideoUseCase(storage, engineClient),
		Metrics:  metrics.NewHTTPServerMetrics("gateway"),
	}, nil
}
