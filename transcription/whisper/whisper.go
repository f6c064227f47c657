// Package whisper implements transcription.Service against a
// faster-whisper HTTP sidecar.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

const (
	// ServiceName is the name the whisper backend reports.
	ServiceName = "transcription"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper transcription backend.
type Config struct {
	URL      string        `json:"url" yaml:"url" mapstructure:"url"`
	Model    string        `json:"model" yaml:"model" mapstructure:"model"`
	Language string        `json:"language,omitempty" yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// Client implements transcription.Service using a faster-whisper HTTP sidecar.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new Whisper transcription client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
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

// IsAvailable checks if the Whisper sidecar is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+"/health", nil)
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

// Transcribe sends an audio file to the Whisper sidecar and returns the
// transcription. All failure paths return a classified ServiceError so the
// retry policy can distinguish transient from permanent failures.
func (c *Client) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	audioData, err := os.ReadFile(req.AudioRef)
	if err != nil {
		return nil, errors.Classify(ServiceName, 0, "invalid audio reference: "+err.Error(), err)
	}

	model := c.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := c.cfg.Language
	if req.Language != "" {
		lang = req.Language
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

	_ = writer.WriteField("model", model)
	if lang != "" {
		_ = writer.WriteField("language", lang)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/transcribe", &buf)
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

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Classify(ServiceName, 0, "decode whisper response: "+err.Error(), err)
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

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResponse(resp *whisperResponse) *transcription.Response {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
