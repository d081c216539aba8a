package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gemini"
)

const isoDate = "2006-01-02"

// msgMissingKey is returned when no language model is configured.
const msgMissingKey = "My language model isn’t configured yet, so I can’t help with that right now."

// extractionPayload mirrors the JSON schema the prompt demands.
type extractionPayload struct {
	Response string `json:"response"`
	NeedsDue bool   `json:"needs_due"`
	Task     struct {
		Enabled bool   `json:"enabled"`
		Title   string `json:"title"`
		DueRaw  string `json:"due_raw"`
		Notes   string `json:"notes"`
	} `json:"task"`
}

// Extract runs one chat-plus-task-detection call over the recent turns.
func (e *implExtractor) Extract(ctx context.Context, history []conversation.Turn) (conversation.Extraction, error) {
	if e.llm == nil {
		return conversation.Extraction{Response: msgMissingKey}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	now := time.Now().In(e.loc)
	prompt := gemini.BuildAssistantPrompt(
		renderConversation(history),
		e.timezone,
		now.Format(isoDate),
		now.AddDate(0, 0, 1).Format(isoDate),
	)

	req := gemini.GenerateRequest{
		Contents: []gemini.Content{
			{
				Parts: []gemini.Part{
					{Text: prompt},
				},
			},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      0.4, // Low temperature for stable JSON output
			MaxOutputTokens:  1024,
			ResponseMimeType: "application/json",
		},
	}

	resp, err := e.llm.GenerateContent(ctx, req)
	if err != nil {
		return conversation.Extraction{}, fmt.Errorf("LLM request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return conversation.Extraction{}, conversation.ErrNoExtraction
	}

	raw := resp.Candidates[0].Content.Parts[0].Text
	cleaned := sanitizeJSONResponse(raw)

	var payload extractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		// Non-JSON output still makes a usable chat reply, just never a
		// task proposal.
		e.l.Warnf(ctx, "extractor: non-JSON LLM output, using raw text. Raw=%q", raw)
		return conversation.Extraction{Response: strings.TrimSpace(raw)}, nil
	}

	return conversation.Extraction{
		Response: payload.Response,
		NeedsDue: payload.NeedsDue,
		Task: conversation.ExtractedTask{
			Enabled: payload.Task.Enabled,
			Title:   payload.Task.Title,
			DueRaw:  payload.Task.DueRaw,
			Notes:   payload.Task.Notes,
		},
	}, nil
}

// renderConversation flattens the turn window into the prompt transcript.
func renderConversation(history []conversation.Turn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		speaker := "User"
		if t.Role == conversation.RoleAssistant {
			speaker = "Assistant"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// sanitizeJSONResponse removes markdown code fences and leading/trailing
// prose that LLMs often add around JSON output.
func sanitizeJSONResponse(text string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	matches := re.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}
