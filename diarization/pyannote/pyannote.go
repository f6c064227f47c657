// Package pyannote implements diarization.Service against a Pyannote
// HTTP sidecar.
package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
)

const (
	// ServiceName is the name the pyannote backend reports.
	ServiceName = "diarization"

	defaultPyannoteURL     = "http://localhost:8388"
	defaultPyannoteTimeout = 300 * time.Second
)

// Config holds configuration for the Pyannote diarization backend.
type Config struct {
	BaseURL string        `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// Client implements diarization.Service using the Pyannote HTTP sidecar.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new Pyannote diarization client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPyannoteURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultPyannoteTimeout
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the backend name.
func (c *Client) Name() string { return ServiceName }

// IsAvailable checks if the Pyannote sidecar is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Diarize sends audio to the Pyannote sidecar and returns speaker-attributed
// segments. All failure paths return a classified ServiceError.
func (c *Client) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	audioData, err := os.ReadFile(req.AudioRef)
	if err != nil {
		return nil, errors.Classify(ServiceName, 0, "invalid audio reference: "+err.Error(), err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, errors.Classify(ServiceName, 0, "create form file: "+err.Error(), err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, errors.Classify(ServiceName, 0, "write audio data: "+err.Error(), err)
	}

	if req.NumSpeakers > 0 {
		_ = writer.WriteField("num_speakers", fmt.Sprintf("%d", req.NumSpeakers))
	}
	if req.MinSpeakers > 0 {
		_ = writer.WriteField("min_speakers", fmt.Sprintf("%d", req.MinSpeakers))
	}
	if req.MaxSpeakers > 0 {
		_ = writer.WriteField("max_speakers", fmt.Sprintf("%d", req.MaxSpeakers))
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/diarize", &buf)
	if err != nil {
		return nil, errors.Classify(ServiceName, 0, "create request: "+err.Error(), err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Classify(ServiceName, resp.StatusCode, string(body), nil)
	}

	var result pyannoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Classify(ServiceName, 0, "decode diarization response: "+err.Error(), err)
	}

	if result.Error != "" {
		return nil, errors.Classify(ServiceName, 0, result.Error, nil)
	}

	return toResponse(&result), nil
}

// classifyTransportError maps Go transport errors onto the error taxonomy.
func classifyTransportError(service string, err error) *errors.ServiceError {
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Classify(service, 0, "request timed out: "+err.Error(), err)
	}
	return errors.Classify(service, 0, "connection refused or reset: "+err.Error(), err)
}

// --- internal Pyannote API types ---

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func toResponse(resp *pyannoteResponse) *diarization.Response {
	segments := make([]diarization.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = diarization.Segment{
			Speaker: seg.SpeakerID,
			Start:   seg.StartTime,
			End:     seg.EndTime,
		}
	}
	return &diarization.Response{
		Segments:    segments,
		NumSpeakers: resp.NumSpeakers,
	}
}
