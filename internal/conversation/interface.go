package conversation

import (
	"context"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/model"
)

// UseCase is the business logic interface for the conversation domain:
// one utterance in, updated session state and a reply out.
type UseCase interface {
	// HandleTurn processes a single user utterance against the session
	// state carried in input. Collaborator failures degrade into
	// conversational replies; a non-nil error signals an internal fault
	// and the caller should keep its prior session state.
	HandleTurn(ctx context.Context, sc model.Scope, input TurnInput) (TurnOutput, error)
}

// IntentExtractor wraps the LLM collaborator: given the recent turn
// history it produces a chat reply plus a candidate task. Implementations
// must return a usable Extraction even for malformed model output.
type IntentExtractor interface {
	Extract(ctx context.Context, history []Turn) (Extraction, error)
}

// ActionDispatcher wraps the task-persistence collaborator. A single
// synchronous call, no retries; failures are reported in the result.
type ActionDispatcher interface {
	Submit(ctx context.Context, topicKey string, task DraftTask) DispatchResult
}

// Transcriber converts a recorded audio clip to text. It never fails
// loudly: any problem (missing file, recognition error, engine absent)
// yields an empty transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) string
}

// Synthesizer converts reply text to an audio file. ok=false when
// synthesis is unavailable or failed; the turn proceeds without audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (audioPath string, ok bool)
}
