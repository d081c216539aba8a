package usecase

import (
	"context"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
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

// Mock intent extractor for testing
type mockExtractor struct {
	ext        conversation.Extraction
	err        error
	gotHistory []conversation.Turn
	calls      int
}

func (m *mockExtractor) Extract(ctx context.Context, history []conversation.Turn) (conversation.Extraction, error) {
	m.calls++
	m.gotHistory = history
	return m.ext, m.err
}

// Mock action dispatcher for testing
type mockDispatcher struct {
	result      conversation.DispatchResult
	gotTopicKey string
	gotTask     conversation.DraftTask
	calls       int
}

func (m *mockDispatcher) Submit(ctx context.Context, topicKey string, task conversation.DraftTask) conversation.DispatchResult {
	m.calls++
	m.gotTopicKey = topicKey
	m.gotTask = task
	return m.result
}

// Mock speech collaborators for testing
type mockTranscriber struct {
	text    string
	gotPath string
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) string {
	m.gotPath = audioPath
	return m.text
}

type mockSynthesizer struct {
	path    string
	ok      bool
	gotText string
	calls   int
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string) (string, bool) {
	m.calls++
	m.gotText = text
	return m.path, m.ok
}
