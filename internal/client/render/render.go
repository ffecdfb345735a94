// Package render projects an analysis result into display state. It performs
// no I/O and never mutates its input.
package render

import (
	"strconv"
	"strings"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

// Severity bands for the stress confidence value.
const (
	ColorHigh    = "#e74c3c"
	ColorMedium  = "#f39c12"
	ColorLow     = "#2ecc71"
	ColorNeutral = "#95a5a6"
)

var emotionColors = map[string]string{
	"angry":    "#e74c3c",
	"happy":    "#2ecc71",
	"sad":      "#3498db",
	"surprise": "#f39c12",
	"fear":     "#9b59b6",
}

// StressColor maps confidence to one of three discrete severity colors.
// A missing confidence falls into the low band.
func StressColor(confidence *float64) string {
	if confidence == nil {
		return ColorLow
	}
	switch {
	case *confidence > 80:
		return ColorHigh
	case *confidence > 50:
		return ColorMedium
	default:
		return ColorLow
	}
}

// EmotionColor looks up the fixed palette; unknown labels get the neutral
// default instead of failing.
func EmotionColor(emotion string) string {
	if color, ok := emotionColors[strings.ToLower(emotion)]; ok {
		return color
	}
	return ColorNeutral
}

// Segment is one proportionally-sized span of the rendered timeline.
type Segment struct {
	Emotion      string
	Color        string
	WidthPercent float64
}

// Timeline lays out the emotion timeline. Widths are taken from the engine as
// reported; they are deliberately not renormalized when they do not sum to
// 100.
func Timeline(segments []domain.TimelineSegment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, Segment{
			Emotion:      seg.Emotion,
			Color:        EmotionColor(seg.Emotion),
			WidthPercent: seg.Duration,
		})
	}
	return out
}

// View is the complete display projection of one result. Empty string fields
// mean the underlying value was absent and should be omitted.
type View struct {
	StressLine   string
	StressColor  string
	SBP          string
	DBP          string
	HR           string
	Emotion      string
	EmotionColor string
	Timeline     []Segment
}

// Project derives the full display state from a result. Missing optional
// fields are omitted gracefully.
func Project(result *domain.AnalysisResult) View {
	if result == nil {
		return View{}
	}

	view := View{
		StressLine:   stressLine(result),
		StressColor:  StressColor(result.Confidence),
		SBP:          formatMeasure(result.SBP),
		DBP:          formatMeasure(result.DBP),
		HR:           formatMeasure(result.HR),
		Emotion:      result.OverallEmotion,
		EmotionColor: EmotionColor(result.OverallEmotion),
		Timeline:     Timeline(result.EmotionTimeline),
	}
	return view
}

func stressLine(result *domain.AnalysisResult) string {
	line := "No"
	if result.StressDetected {
		line = "Yes"
	}
	if result.Confidence != nil {
		line += " (" + strconv.FormatFloat(*result.Confidence, 'f', -1, 64) + "%)"
	}
	return line
}

func formatMeasure(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
