package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/infrastructure/resilience"
)

// Client talks to the external analysis engine. The engine reads the video
// from the shared filesystem, so requests carry only a path reference.
type Client struct {
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL string, timeout time.Duration, exec *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		exec:       exec,
	}
}

// Process submits a stored video path and returns the engine payload
// verbatim. The body is checked for being valid JSON and nothing more.
func (c *Client) Process(ctx context.Context, videoPath string) (*domain.RawAnalysis, error) {
	request := map[string]any{
		"videoPath": videoPath,
	}

	var body []byte
	call := func(ctx context.Context) error {
		raw, err := c.postJSON(ctx, "/process", request, "process")
		if err != nil {
			return err
		}
		body = raw
		return nil
	}

	var err error
	if c.exec != nil {
		err = c.exec.Execute(ctx, "engine.process", call, classifyEngineError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("process", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("engine process: response is not valid json")
	}
	return &domain.RawAnalysis{Body: json.RawMessage(body)}, nil
}
