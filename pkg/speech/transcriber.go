package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

const defaultTimeout = 30 * time.Second

// Transcriber converts recorded audio into text via an HTTP
// speech-to-text service. Failures never propagate; a failed
// transcription is simply an empty transcript.
type Transcriber struct {
	l          pkgLog.Logger
	apiURL     string
	httpClient *http.Client
}

// NewTranscriber creates a transcriber posting to the given STT endpoint.
func NewTranscriber(l pkgLog.Logger, apiURL string, timeout time.Duration) *Transcriber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transcriber{
		l:          l,
		apiURL:     strings.TrimSpace(apiURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DisabledTranscriber creates a transcriber that always returns an empty
// transcript, for deployments without a speech service.
func DisabledTranscriber() *Transcriber {
	return &Transcriber{}
}

// SetAPIURL overrides the STT endpoint for testing purposes.
func (t *Transcriber) SetAPIURL(url string) {
	t.apiURL = url
}

// Transcribe uploads the audio file and returns the recognized text, or
// an empty string on any failure.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) string {
	if t.apiURL == "" {
		return ""
	}

	f, err := os.Open(audioPath)
	if err != nil {
		t.l.Warnf(ctx, "speech: open audio file %q: %v", audioPath, err)
		return ""
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		t.l.Warnf(ctx, "speech: build upload form: %v", err)
		return ""
	}
	if _, err := io.Copy(part, f); err != nil {
		t.l.Warnf(ctx, "speech: read audio file: %v", err)
		return ""
	}
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, &buf)
	if err != nil {
		t.l.Warnf(ctx, "speech: build stt request: %v", err)
		return ""
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.l.Warnf(ctx, "speech: stt call failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.l.Warnf(ctx, "speech: stt returned %d", resp.StatusCode)
		return ""
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.l.Warnf(ctx, "speech: decode stt response: %v", err)
		return ""
	}
	return strings.TrimSpace(result.Text)
}
