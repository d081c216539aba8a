package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

// Synthesizer turns reply text into spoken audio via an HTTP
// text-to-speech service. The synthesized audio is written to a temp
// file and returned by path.
type Synthesizer struct {
	l          pkgLog.Logger
	apiURL     string
	outDir     string
	httpClient *http.Client
}

// NewSynthesizer creates a synthesizer posting to the given TTS endpoint.
// Audio files land in outDir, or the OS temp dir when empty.
func NewSynthesizer(l pkgLog.Logger, apiURL, outDir string, timeout time.Duration) *Synthesizer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if outDir == "" {
		outDir = os.TempDir()
	}
	return &Synthesizer{
		l:          l,
		apiURL:     strings.TrimSpace(apiURL),
		outDir:     outDir,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DisabledSynthesizer creates a synthesizer that never produces audio.
func DisabledSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// SetAPIURL overrides the TTS endpoint for testing purposes.
func (s *Synthesizer) SetAPIURL(url string) {
	s.apiURL = url
}

// Synthesize renders text to an audio file. ok=false on any failure.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, bool) {
	if s.apiURL == "" || strings.TrimSpace(text) == "" {
		return "", false
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		s.l.Warnf(ctx, "speech: encode tts request: %v", err)
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		s.l.Warnf(ctx, "speech: build tts request: %v", err)
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.l.Warnf(ctx, "speech: tts call failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.l.Warnf(ctx, "speech: tts returned %d", resp.StatusCode)
		return "", false
	}

	out, err := os.CreateTemp(s.outDir, "tts-*.mp3")
	if err != nil {
		s.l.Warnf(ctx, "speech: create audio file: %v", err)
		return "", false
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		s.l.Warnf(ctx, "speech: write audio file: %v", err)
		os.Remove(out.Name())
		return "", false
	}
	return out.Name(), true
}
