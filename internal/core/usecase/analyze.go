package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/ports"
)

// AnalyzeVideoUseCase stores one uploaded video and synchronously forwards a
// path reference to the analysis engine. It holds no state across requests.
type AnalyzeVideoUseCase struct {
	storage ports.VideoStore
	engine  ports.AnalysisEngine
}

func NewAnalyzeVideoUseCase(storage ports.VideoStore, engine ports.AnalysisEngine) *AnalyzeVideoUseCase {
	return &AnalyzeVideoUseCase{
		storage: storage,
		engine:  engine,
	}
}

func (uc *AnalyzeVideoUseCase) Analyze(
	ctx context.Context,
	filename, mimeType string,
	size int64,
	deleteAfter bool,
	body io.Reader,
) (*domain.RawAnalysis, error) {
	req := &domain.UploadRequest{
		ID:          uuid.NewString(),
		Filename:    filename,
		MimeType:    mimeType,
		Size:        size,
		DeleteAfter: deleteAfter,
		ReceivedAt:  time.Now().UTC(),
	}
	// Millisecond prefix keeps concurrent uploads of the same filename apart.
	storageKey := fmt.Sprintf("%d_%s", req.ReceivedAt.UnixMilli(), sanitizeFilename(filename))

	storedPath, err := uc.storage.Save(ctx, storageKey, body)
	if err != nil {
		return nil, fmt.Errorf("save uploaded video: %w", err)
	}
	req.StoredPath = storedPath

	if deleteAfter {
		defer func() {
			if err := uc.storage.Remove(context.WithoutCancel(ctx), storageKey); err != nil {
				slog.Warn("delete_after_cleanup_failed", "upload_id", req.ID, "key", storageKey, "error", err)
			}
		}()
	}

	slog.Info("forwarding_video_to_engine",
		"upload_id", req.ID,
		"filename", filename,
		"size_bytes", size,
		"stored_path", storedPath,
		"delete_after", deleteAfter,
	)

	result, err := uc.engine.Process(ctx, storedPath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "engine process", err)
	}
	return result, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "video.mp4"
	}
	return base
}
