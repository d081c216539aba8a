package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// topicKey derives the correlation slug from a task title.
func topicKey(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// replaceLastAssistant overwrites the most recent assistant turn (the
// thinking placeholder) with the final reply text. Appends when the
// history holds no assistant turn yet.
func replaceLastAssistant(history []conversation.Turn, text string) []conversation.Turn {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == conversation.RoleAssistant {
			history[i].Content = text
			return history
		}
	}
	return append(history, conversation.Turn{Role: conversation.RoleAssistant, Content: text})
}

// notesPreview truncates notes for inline previews. Empty notes render
// as "(none)" so the message shape stays stable.
func notesPreview(notes string, limit int) string {
	if strings.TrimSpace(notes) == "" {
		return "(none)"
	}
	r := []rune(notes)
	if len(r) > limit {
		return string(r[:limit])
	}
	return notes
}

// dueOrDefault substitutes a spoken fallback for an empty due date.
func dueOrDefault(due, fallback string) string {
	if strings.TrimSpace(due) == "" {
		return fallback
	}
	return due
}

// window returns the trailing n turns of the history.
func window(history []conversation.Turn, n int) []conversation.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// appendTurns copies the incoming history before appending, keeping the
// caller's slice untouched.
func appendTurns(history []conversation.Turn, turns ...conversation.Turn) []conversation.Turn {
	out := make([]conversation.Turn, 0, len(history)+len(turns))
	out = append(out, history...)
	return append(out, turns...)
}

// clonePending deep-copies the pending proposal so state mutations never
// leak back into the caller's copy mid-turn.
func clonePending(p *conversation.PendingProposal) *conversation.PendingProposal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// speak synthesizes text when a synthesizer is configured and the caller
// asked for audio. Failures simply yield no audio.
func (uc *implUseCase) speak(ctx context.Context, wantAudio bool, text string) string {
	if !wantAudio || uc.synthesizer == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	path, ok := uc.synthesizer.Synthesize(ctx, text)
	if !ok {
		return ""
	}
	return path
}
