package extractor

import (
	"time"

	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gemini"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

const defaultTimeout = 30 * time.Second

type implExtractor struct {
	l        pkgLog.Logger
	llm      *gemini.Client
	timezone string
	loc      *time.Location
	timeout  time.Duration
}

// New creates a Gemini-backed intent extractor. llm may be nil when no
// API key is configured; extraction then returns a fixed reply without
// calling out.
func New(l pkgLog.Logger, llm *gemini.Client, timezone string, timeout time.Duration) *implExtractor {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &implExtractor{
		l:        l,
		llm:      llm,
		timezone: timezone,
		loc:      loc,
		timeout:  timeout,
	}
}
