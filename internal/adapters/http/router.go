package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/config"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/ports"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/observability/metrics"
)

const serviceName = "gateway"

// genericAnalysisError is what clients see on any downstream failure. The
// real cause stays in the gateway logs.
const genericAnalysisError = "Error analyzing video"

type Router struct {
	cfg      config.Config
	analyzer ports.VideoAnalyzer
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(cfg config.Config, analyzer ports.VideoAnalyzer, m *metrics.HTTPServerMetrics) *Router {
	return &Router{
		cfg:      cfg,
		analyzer: analyzer,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/video/analyze", rt.analyzeVideo)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Multipart framing overhead rides on top of the file cap.
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes+1<<20)

	file, fileHeader, err := r.FormFile("video")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeMessage(w, http.StatusBadRequest, rt.sizeLimitMessage())
			return
		}
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if fileHeader.Size > rt.cfg.MaxUploadBytes {
		writeMessage(w, http.StatusBadRequest, rt.sizeLimitMessage())
		return
	}

	deleteAfter, _ := strconv.ParseBool(r.FormValue("delete_after"))

	start := time.Now()
	result, err := rt.analyzer.Analyze(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		deleteAfter,
		file,
	)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		slog.Error("video_analysis_failed",
			"request_id", requestIDFromContext(r.Context()),
			"filename", fileHeader.Filename,
			"status", status,
			"error", err,
		)
		if rt.metrics != nil {
			rt.metrics.RecordAnalysis(serviceName, "error", fileHeader.Size, time.Since(start))
		}
		if status == http.StatusBadRequest {
			writeMessage(w, status, "Invalid video upload")
			return
		}
		writeMessage(w, status, genericAnalysisError)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordAnalysis(serviceName, "ok", fileHeader.Size, time.Since(start))
	}

	// Engine payload is relayed verbatim, never re-shaped.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}

func (rt *Router) sizeLimitMessage() string {
	return "File size exceeds " + strconv.FormatInt(rt.cfg.MaxUploadBytes>>20, 10) + "MB limit"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
