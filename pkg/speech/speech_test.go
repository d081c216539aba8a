package speech_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/speech"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

var _ pkgLog.Logger = (*mockLogger)(nil)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(path, []byte("RIFF-fake-audio"), 0644); err != nil {
		t.Fatalf("write audio fixture: %v", err)
	}
	return path
}

func TestTranscriber(t *testing.T) {
	t.Run("Successful Transcription", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("expected multipart upload: %v", err)
			}
			if _, _, err := r.FormFile("audio"); err != nil {
				t.Errorf("audio part missing: %v", err)
			}
			w.Write([]byte(`{"text":"  remind me to call mom  "}`))
		}))
		defer ts.Close()

		tr := speech.NewTranscriber(&mockLogger{}, ts.URL, 2*time.Second)
		got := tr.Transcribe(context.Background(), writeTempAudio(t))
		if got != "remind me to call mom" {
			t.Errorf("unexpected transcript: %q", got)
		}
	})

	t.Run("Service Failure Yields Empty", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		tr := speech.NewTranscriber(&mockLogger{}, ts.URL, 2*time.Second)
		if got := tr.Transcribe(context.Background(), writeTempAudio(t)); got != "" {
			t.Errorf("expected empty transcript, got %q", got)
		}
	})

	t.Run("Missing File Yields Empty", func(t *testing.T) {
		tr := speech.NewTranscriber(&mockLogger{}, "http://example.invalid", 2*time.Second)
		if got := tr.Transcribe(context.Background(), "/does/not/exist.wav"); got != "" {
			t.Errorf("expected empty transcript, got %q", got)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		tr := speech.DisabledTranscriber()
		if got := tr.Transcribe(context.Background(), writeTempAudio(t)); got != "" {
			t.Errorf("disabled transcriber must return empty, got %q", got)
		}
	})
}

func TestSynthesizer(t *testing.T) {
	t.Run("Successful Synthesis", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake-mp3-bytes"))
		}))
		defer ts.Close()

		s := speech.NewSynthesizer(&mockLogger{}, ts.URL, t.TempDir(), 2*time.Second)
		path, ok := s.Synthesize(context.Background(), "Hello there")
		if !ok {
			t.Fatal("expected synthesis to succeed")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read synthesized audio: %v", err)
		}
		if string(data) != "fake-mp3-bytes" {
			t.Errorf("unexpected audio content: %q", data)
		}
	})

	t.Run("Service Failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		s := speech.NewSynthesizer(&mockLogger{}, ts.URL, t.TempDir(), 2*time.Second)
		if _, ok := s.Synthesize(context.Background(), "Hello"); ok {
			t.Error("expected synthesis failure")
		}
	})

	t.Run("Empty Text", func(t *testing.T) {
		s := speech.NewSynthesizer(&mockLogger{}, "http://example.invalid", t.TempDir(), 2*time.Second)
		if _, ok := s.Synthesize(context.Background(), "   "); ok {
			t.Error("empty text must not synthesize")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		s := speech.DisabledSynthesizer()
		if _, ok := s.Synthesize(context.Background(), "Hello"); ok {
			t.Error("disabled synthesizer must not produce audio")
		}
	})
}
