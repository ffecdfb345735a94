package ports

import (
	"context"
	"io"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

// VideoAnalyzer is the inbound contract for upload-and-analyze orchestration.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, filename, mimeType string, size int64, deleteAfter bool, body io.Reader) (*domain.RawAnalysis, error)
}
