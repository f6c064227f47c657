package whisper

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF0000WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "hello there",
			"language": "en",
			"segments": [
				{"text": "hello", "start": 0.0, "end": 1.2},
				{"text": "there", "start": 1.2, "end": 2.0}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	resp, err := c.Transcribe(context.Background(), transcription.Request{AudioRef: writeTestAudio(t)})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if resp.Text != "hello there" {
		t.Errorf("expected text 'hello there', got %q", resp.Text)
	}
	if len(resp.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(resp.Segments))
	}
	if resp.Duration != 2.0 {
		t.Errorf("expected duration 2.0, got %f", resp.Duration)
	}
}

func TestTranscribe_ClassifiesHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantCode   errors.ErrorCode
		wantRetry  bool
	}{
		{"rate limited", http.StatusTooManyRequests, errors.ErrCodeRateLimited, true},
		{"unavailable", http.StatusServiceUnavailable, errors.ErrCodeServiceUnavailable, true},
		{"unauthorized", http.StatusUnauthorized, errors.ErrCodeUnauthorized, false},
		{"unsupported media", http.StatusUnsupportedMediaType, errors.ErrCodeUnsupportedFormat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.statusCode)
			}))
			defer srv.Close()

			c := NewClient(Config{URL: srv.URL})
			_, err := c.Transcribe(context.Background(), transcription.Request{AudioRef: writeTestAudio(t)})

			var se *errors.ServiceError
			if !stderrors.As(err, &se) {
				t.Fatalf("expected ServiceError, got %v", err)
			}
			if se.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, se.Code)
			}
			if se.Retryable != tt.wantRetry {
				t.Errorf("expected retryable=%v, got %v", tt.wantRetry, se.Retryable)
			}
			if se.Service != ServiceName {
				t.Errorf("expected service %s, got %s", ServiceName, se.Service)
			}
		})
	}
}

func TestTranscribe_MissingAudioIsNonRetryable(t *testing.T) {
	c := NewClient(Config{URL: "http://localhost:1"})
	_, err := c.Transcribe(context.Background(), transcription.Request{AudioRef: "/does/not/exist.wav"})

	var se *errors.ServiceError
	if !stderrors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.Retryable {
		t.Error("a missing audio file must not be retried")
	}
}

func TestTranscribe_ConnectionFailureIsRetryable(t *testing.T) {
	// Port 1 is never listening.
	c := NewClient(Config{URL: "http://127.0.0.1:1"})
	_, err := c.Transcribe(context.Background(), transcription.Request{AudioRef: writeTestAudio(t)})

	var se *errors.ServiceError
	if !stderrors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if !se.Retryable {
		t.Error("connection failures must be retryable")
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	if !c.IsAvailable(context.Background()) {
		t.Error("expected sidecar to be available")
	}

	down := NewClient(Config{URL: "http://127.0.0.1:1"})
	if down.IsAvailable(context.Background()) {
		t.Error("expected unreachable sidecar to be unavailable")
	}
}
