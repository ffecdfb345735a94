package client

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

const (
	errNoFile        = "Please upload a video first!"
	errFileTooLarge  = "File size exceeds 100MB limit"
	errGenericUpload = "Error analyzing video. Please try again."

	defaultTickInterval = 300 * time.Millisecond
	defaultStepDelay    = time.Second
	maxTickIncrement    = 10.0
)

// ErrBusy is returned when Submit is called while a submission is already in
// flight. The duplicate call changes no state.
var ErrBusy = errors.New("submission already in flight")

// Transport performs the actual upload and reports real transfer progress as
// a fraction in [0,1]. Real progress supersedes the simulated ticker.
type Transport interface {
	Upload(ctx context.Context, file FileInfo, deleteAfter bool, onProgress func(fraction float64)) (*domain.AnalysisResult, error)
}

// ServerError carries the structured {message} body of a failed gateway
// response so it can be surfaced to the user verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

type Option func(*Controller)

func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tickInterval = d }
}

func WithStepDelay(d time.Duration) Option {
	return func(c *Controller) { c.stepDelay = d }
}

// WithOnChange registers a callback invoked after every state transition with
// a consistent snapshot. Called on the controller's goroutines; must not call
// back into the controller.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the lifecycle of one upload session at a time: file
// selection, simulated and real progress, step pacing, submission, result.
type Controller struct {
	transport    Transport
	tickInterval time.Duration
	stepDelay    time.Duration
	onChange     func(Snapshot)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc

	status      Status
	progress    float64
	stepIndex   Step
	file        *FileInfo
	result      *domain.AnalysisResult
	errMsg      string
	deleteAfter bool
	realSeen    bool
}

func NewController(transport Transport, opts ...Option) *Controller {
	c := &Controller{
		transport:    transport,
		tickInterval: defaultTickInterval,
		stepDelay:    defaultStepDelay,
		status:       StatusIdle,
		stepIndex:    -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Status:    c.status,
		Progress:  c.progress,
		StepIndex: c.stepIndex,
		File:      c.file,
		Result:    c.result,
		ErrMsg:    c.errMsg,
	}
}

func (c *Controller) notifyLocked() {
	if c.onChange != nil {
		c.onChange(c.snapshotLocked())
	}
}

// SetDeleteAfter records the advisory deletion preference forwarded with the
// next submission.
func (c *Controller) SetDeleteAfter(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteAfter = v
}

// SelectFile starts a fresh session around the given file. Any in-flight
// submission is abandoned: its timers are cancelled and late completions are
// discarded by the generation guard. Files over the size cap fail before any
// network activity.
func (c *Controller) SelectFile(info FileInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.result = nil
	c.progress = 0
	c.stepIndex = -1
	c.realSeen = false

	if info.Size > MaxFileBytes {
		c.file = nil
		c.status = StatusFailed
		c.errMsg = errFileTooLarge
		c.notifyLocked()
		return errors.New(errFileTooLarge)
	}

	if info.MimeType == "" {
		info.MimeType = DetectMimeType(info.Name)
	}
	c.file = &info
	c.status = StatusSelected
	c.errMsg = ""
	c.notifyLocked()
	return nil
}

// Submit runs one submission to completion. It blocks until the session
// reaches Complete or Failed, or until the session is superseded. Submitting
// with nothing selected fails without touching session state; submitting
// while loading is a guarded no-op.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.status == StatusUploading || c.status == StatusProcessing {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.file == nil {
		c.errMsg = errNoFile
		c.notifyLocked()
		c.mu.Unlock()
		return errors.New(errNoFile)
	}

	c.generation++
	gen := c.generation
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	file := *c.file
	deleteAfter := c.deleteAfter
	c.status = StatusUploading
	c.stepIndex = StepUploading
	c.progress = 0
	c.result = nil
	c.errMsg = ""
	c.realSeen = false
	c.notifyLocked()
	c.mu.Unlock()

	tickerDone := make(chan struct{})
	go c.runTicker(ctx, gen, tickerDone)
	defer func() {
		cancel()
		<-tickerDone
	}()

	// Deliberate pacing so the first step is visible before the request
	// starts.
	if !c.sleep(ctx, c.stepDelay) {
		c.fail(gen, errGenericUpload)
		return ctx.Err()
	}
	c.advance(gen, StepProcessing, StatusProcessing)

	c.advance(gen, StepAnalyzing, StatusProcessing)
	result, err := c.transport.Upload(ctx, file, deleteAfter, func(fraction float64) {
		c.applyRealProgress(gen, fraction)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A newer session took over while this one was in flight.
		return nil
	}
	if err != nil {
		c.status = StatusFailed
		c.errMsg = userMessage(err)
		c.notifyLocked()
		return err
	}

	c.result = result
	c.status = StatusComplete
	c.stepIndex = StepComplete
	c.progress = 100
	c.notifyLocked()
	return nil
}

// runTicker drives simulated progress until real transport progress shows up,
// the bar fills, or the session ends.
func (c *Controller) runTicker(ctx context.Context, gen uint64, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if gen != c.generation || c.realSeen || !c.loadingLocked() {
			c.mu.Unlock()
			return
		}
		c.progress += rand.Float64() * maxTickIncrement
		if c.progress >= 100 {
			c.progress = 100
			c.notifyLocked()
			c.mu.Unlock()
			return
		}
		c.notifyLocked()
		c.mu.Unlock()
	}
}

func (c *Controller) fail(gen uint64, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.status = StatusFailed
	c.errMsg = msg
	c.notifyLocked()
}

func (c *Controller) applyRealProgress(gen uint64, fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || !c.loadingLocked() {
		return
	}
	c.realSeen = true
	real := fraction * 100
	if real > 100 {
		real = 100
	}
	// Real progress wins from here on, but the bar never moves backwards.
	if real > c.progress {
		c.progress = real
	}
	c.notifyLocked()
}

func (c *Controller) advance(gen uint64, step Step, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	if step > c.stepIndex {
		c.stepIndex = step
	}
	c.status = status
	c.notifyLocked()
}

func (c *Controller) loadingLocked() bool {
	return c.status == StatusUploading || c.status == StatusProcessing
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func userMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return errGenericUpload
}
