package client

import (
	"path/filepath"
	"strings"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

// MaxFileBytes is the client-side upload cap. Violations are rejected before
// any network call.
const MaxFileBytes int64 = 100 << 20

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSelected   Status = "selected"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Step indexes the ordered UI step sequence. It only ever advances within one
// session.
type Step int

const (
	StepUploading Step = iota
	StepProcessing
	StepAnalyzing
	StepComplete
)

var stepLabels = [...]string{"Uploading", "Processing", "Analyzing", "Complete"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepLabels) {
		return "Unknown"
	}
	return stepLabels[s]
}

// FileInfo is the previewable handle captured on selection.
type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	MimeType string
}

// Snapshot is an immutable view of the active session, safe to hand to
// rendering code.
type Snapshot struct {
	Status    Status
	Progress  float64
	StepIndex Step
	File      *FileInfo
	Result    *domain.AnalysisResult
	ErrMsg    string
}

// Loading reports whether a submission is in flight.
func (s Snapshot) Loading() bool {
	return s.Status == StatusUploading || s.Status == StatusProcessing
}

// DetectMimeType maps a video filename to its MIME type. Unknown extensions
// fall back to the generic video type; the engine decides decodability.
func DetectMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
