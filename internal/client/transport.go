package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/core/domain"
)

// HTTPTransport uploads one video to the gateway as a streamed multipart
// request and reports transport-level progress while the body is consumed.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Upload(ctx context.Context, file FileInfo, deleteAfter bool, onProgress func(fraction float64)) (*domain.AnalysisResult, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("video", file.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := io.Reader(f)
		if onProgress != nil && file.Size > 0 {
			src = &progressReader{r: f, total: file.Size, onProgress: onProgress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("delete_after", strconv.FormatBool(deleteAfter)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/video/analyze", pr)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp)
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	if onProgress != nil {
		onProgress(1)
	}
	return &result, nil
}

func parseServerError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &payload)
	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(payload.Message),
	}
}

// progressReader reports cumulative read progress as a fraction of the known
// file size.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	onProgress func(fraction float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		fraction := float64(p.read) / float64(p.total)
		if fraction > 1 {
			fraction = 1
		}
		p.onProgress(fraction)
	}
	return n, err
}
