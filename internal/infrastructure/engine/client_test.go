package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestProcessSendsVideoPathAndRelaysBody(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPath, _ = payload["videoPath"].(string)
		_, _ = w.Write([]byte(`{"stress_detected":true,"confidence":87,"sbp":128.4,"dbp":82.1,"hr":91.0,"overall_emotion":"Angry"}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	result, err := client.Process(context.Background(), "/uploads/1700000000000_clip.mp4")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if capturedPath != "/uploads/1700000000000_clip.mp4" {
		t.Fatalf("unexpected forwarded path: %q", capturedPath)
	}
	if !strings.Contains(string(result.Body), `"overall_emotion":"Angry"`) {
		t.Fatalf("expected verbatim engine body, got %s", result.Body)
	}
}

func TestProcessIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid or missing video path", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	_, err := client.Process(context.Background(), "/uploads/missing.mp4")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid or missing video path") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestProcessRejectsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	_, err := client.Process(context.Background(), "/uploads/clip.mp4")
	if err == nil {
		t.Fatalf("expected error for non-json body")
	}
}

func TestProcessTimesOutAgainstHangingEngine(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := New(server.URL, 50*time.Millisecond, nil)
	start := time.Now()
	_, err := client.Process(context.Background(), "/uploads/clip.mp4")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout took too long: %v", time.Since(start))
	}
}
