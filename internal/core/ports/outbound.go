package ports

import (
	"context"
	"io"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

// VideoStore persists uploaded videos for the duration of one request.
type VideoStore interface {
	Save(ctx context.Context, key string, data io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}

// AnalysisEngine performs the actual video analysis. It receives a filesystem
// reference, never the raw bytes; the gateway and engine share storage.
type AnalysisEngine interface {
	Process(ctx context.Context, videoPath string) (*domain.RawAnalysis, error)
}
