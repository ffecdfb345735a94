package domain

import (
	"encoding/json"
	"time"
)

// AnalysisResult mirrors the engine's response shape. All fields beyond
// stress_detected are optional and treated as untrusted external data.
type AnalysisResult struct {
	StressDetected  bool              `json:"stress_detected"`
	Confidence      *float64          `json:"confidence,omitempty"`
	SBP             *float64          `json:"sbp,omitempty"`
	DBP             *float64          `json:"dbp,omitempty"`
	HR              *float64          `json:"hr,omitempty"`
	OverallEmotion  string            `json:"overall_emotion,omitempty"`
	EmotionTimeline []TimelineSegment `json:"emotion_timeline,omitempty"`
}

// TimelineSegment is one labeled span of the emotion timeline. Duration is the
// engine-reported share of total video duration; segments are not required to
// sum to 100.
type TimelineSegment struct {
	Emotion  string  `json:"emotion"`
	Duration float64 `json:"duration"`
}

// UploadRequest describes one accepted multipart upload on the gateway.
type UploadRequest struct {
	ID          string
	Filename    string
	MimeType    string
	Size        int64
	StoredPath  string
	DeleteAfter bool
	ReceivedAt  time.Time
}

// RawAnalysis is the engine payload relayed verbatim to the client. The
// gateway never interprets its contents.
type RawAnalysis struct {
	Body json.RawMessage
}
