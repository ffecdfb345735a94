package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

type transportFunc func(ctx context.Context, file FileInfo, deleteAfter bool, onProgress func(float64)) (*domain.AnalysisResult, error)

func (f transportFunc) Upload(ctx context.Context, file FileInfo, deleteAfter bool, onProgress func(float64)) (*domain.AnalysisResult, error) {
	return f(ctx, file, deleteAfter, onProgress)
}

type snapshotLog struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (l *snapshotLog) record(s Snapshot) {
	l.mu.Lock()
	l.snapshots = append(l.snapshots, s)
	l.mu.Unlock()
}

func (l *snapshotLog) all() []Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Snapshot, len(l.snapshots))
	copy(out, l.snapshots)
	return out
}

func fastOpts(log *snapshotLog) []Option {
	opts := []Option{
		WithTickInterval(time.Millisecond),
		WithStepDelay(time.Millisecond),
	}
	if log != nil {
		opts = append(opts, WithOnChange(log.record))
	}
	return opts
}

func okResult() *domain.AnalysisResult {
	confidence := 87.0
	return &domain.AnalysisResult{
		StressDetected: true,
		Confidence:     &confidence,
		OverallEmotion: "Angry",
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}

func TestSelectFileRejectsOversizeBeforeAnyNetworkCall(t *testing.T) {
	calls := 0
	transport := transportFunc(func(context.Context, FileInfo, bool, func(float64)) (*domain.AnalysisResult, error) {
		calls++
		return okResult(), nil
	})
	c := NewController(transport, fastOpts(nil)...)

	err := c.SelectFile(FileInfo{Name: "huge.mp4", Size: MaxFileBytes + 1})
	if err == nil {
		t.Fatalf("expected size-limit error")
	}
	snap := c.Snapshot()
	if snap.Status != StatusFailed || snap.ErrMsg != "File size exceeds 100MB limit" {
		t.Fatalf("unexpected state after oversize: %+v", snap)
	}

	if err := c.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit to fail with no valid file")
	}
	if calls != 0 {
		t.Fatalf("transport must not be called, got %d calls", calls)
	}
	if c.Snapshot().Status != StatusFailed {
		t.Fatalf("status must stay Failed until a valid file is chosen")
	}

	if err := c.SelectFile(FileInfo{Name: "ok.mp4", Size: 1024}); err != nil {
		t.Fatalf("valid selection failed: %v", err)
	}
	if c.Snapshot().Status != StatusSelected {
		t.Fatalf("expected Selected after valid file")
	}
}

func TestSubmitWithoutFileReportsErrorWithoutStateChange(t *testing.T) {
	c := NewController(transportFunc(func(context.Context, FileInfo, bool, func(float64)) (*domain.AnalysisResult, error) {
		t.Fatalf("transport must not be called")
		return nil, nil
	}), fastOpts(nil)...)

	err := c.Submit(context.Background())
	if err == nil {
		t.Fatalf("expected no-file error")
	}
	snap := c.Snapshot()
	if snap.Status != StatusIdle {
		t.Fatalf("status must not change, got %s", snap.Status)
	}
	if snap.ErrMsg != "Please upload a video first!" {
		t.Fatalf("unexpected message: %q", snap.ErrMsg)
	}
}

func TestSubmitHappyPathProgressAndSteps(t *testing.T) {
	log := &snapshotLog{}
	transport := transportFunc(func(_ context.Context, _ FileInfo, _ bool, onProgress func(float64)) (*domain.AnalysisResult, error) {
		onProgress(0.3)
		onProgress(0.8)
		onProgress(0.1) // late low report must not move the bar backwards
		return okResult(), nil
	})
	c := NewController(transport, fastOpts(log)...)

	if err := c.SelectFile(FileInfo{Name: "clip.mp4", Size: 1 << 20}); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	final := c.Snapshot()
	if final.Status != StatusComplete {
		t.Fatalf("expected Complete, got %s", final.Status)
	}
	if final.Progress != 100 {
		t.Fatalf("expected progress exactly 100, got %v", final.Progress)
	}
	if final.StepIndex != StepComplete {
		t.Fatalf("expected final step Complete, got %v", final.StepIndex)
	}
	if final.Result == nil || !final.Result.StressDetected {
		t.Fatalf("expected stored result, got %+v", final.Result)
	}

	lastProgress := -1.0
	lastStep := Step(-1)
	sawSubmit := false
	for _, snap := range log.all() {
		if snap.Status == StatusSelected {
			// Selection resets the bar for the new session.
			lastProgress = -1
			lastStep = -1
			continue
		}
		sawSubmit = true
		if snap.Progress < lastProgress {
			t.Fatalf("progress regressed from %v to %v", lastProgress, snap.Progress)
		}
		if snap.StepIndex < lastStep {
			t.Fatalf("step regressed from %v to %v", lastStep, snap.StepIndex)
		}
		lastProgress = snap.Progress
		lastStep = snap.StepIndex
	}
	if !sawSubmit {
		t.Fatalf("expected submission snapshots")
	}
}

func TestDuplicateSubmitIsGuardedNoOp(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	transport := transportFunc(func(context.Context, FileInfo, bool, func(float64)) (*domain.AnalysisResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return okResult(), nil
	})
	c := NewController(transport, fastOpts(nil)...)
	if err := c.SelectFile(FileInfo{Name: "clip.mp4", Size: 1024}); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	waitFor(t, func() bool { return c.Snapshot().Loading() })

	if err := c.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for duplicate submit, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one in-flight request, got %d", calls)
	}
}

func TestFailureSurfacesServerMessage(t *testing.T) {
	transport := transportFunc(func(context.Context, FileInfo, bool, func(float64)) (*domain.AnalysisResult, error) {
		return nil, &ServerError{StatusCode: 400, Message: "No file uploaded"}
	})
	c := NewController(transport, fastOpts(nil)...)
	if err := c.SelectFile(FileInfo{Name: "clip.mp4", Size: 1024}); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	if err := c.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit error")
	}

	snap := c.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected Failed, got %s", snap.Status)
	}
	if snap.ErrMsg != "No file uploaded" {
		t.Fatalf("expected server message, got %q", snap.ErrMsg)
	}
}

func TestFailureFallsBackToGenericMessage(t *testing.T) {
	transport := transportFunc(func(context.Context, FileInfo, bool, func(float64)) (*domain.AnalysisResult, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	c := NewController(transport, fastOpts(nil)...)
	if err := c.SelectFile(FileInfo{Name: "clip.mp4", Size: 1024}); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	_ = c.Submit(context.Background())

	snap := c.Snapshot()
	if snap.ErrMsg != "Error analyzing video. Please try again." {
		t.Fatalf("expected generic message, got %q", snap.ErrMsg)
	}
}

func TestSupersededSessionDiscardsStaleResult(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	transport := transportFunc(func(_ context.Context, file FileInfo, _ bool, _ func(float64)) (*domain.AnalysisResult, error) {
		if file.Name == "first.mp4" {
			close(firstStarted)
			<-releaseFirst
			return &domain.AnalysisResult{OverallEmotion: "Sad"}, nil
		}
		return &domain.AnalysisResult{OverallEmotion: "Happy"}, nil
	})
	c := NewController(transport, fastOpts(nil)...)

	if err := c.SelectFile(FileInfo{Name: "first.mp4", Size: 1024}); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Submit(context.Background()) }()
	<-firstStarted

	if err := c.SelectFile(FileInfo{Name: "second.mp4", Size: 1024}); err != nil {
		t.Fatalf("second SelectFile() error = %v", err)
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	close(releaseFirst)
	if err := <-firstDone; err != nil {
		t.Fatalf("superseded submit must not report an error, got %v", err)
	}

	snap := c.Snapshot()
	if snap.Status != StatusComplete {
		t.Fatalf("expected Complete from second session, got %s", snap.Status)
	}
	if snap.Result == nil || snap.Result.OverallEmotion != "Happy" {
		t.Fatalf("stale first-session result leaked into state: %+v", snap.Result)
	}
}
