package httpapi

import (
	"time"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/response"
)

// --- Request DTOs ---

type chatReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	AudioPath string `json:"audio_path"`
	SpeakBack bool   `json:"speak_back"`
}

// --- Response DTOs ---

const (
	stateIdle            = "idle"
	stateAwaitingDue     = "awaiting_due"
	stateAwaitingConfirm = "awaiting_confirm"
)

type chatResp struct {
	SessionID    string `json:"session_id"`
	Reply        string `json:"reply"`
	SpeechPath   string `json:"speech_path,omitempty"`
	TaskSaved    bool   `json:"task_saved"`
	PendingState string `json:"pending_state"`
}

func (h *handler) newChatResp(sessionID string, out conversation.TurnOutput) chatResp {
	return chatResp{
		SessionID:    sessionID,
		Reply:        out.Reply,
		SpeechPath:   out.SpeechPath,
		TaskSaved:    out.TaskSaved,
		PendingState: pendingStateOf(out.Pending),
	}
}

func pendingStateOf(p *conversation.PendingProposal) string {
	switch {
	case p == nil:
		return stateIdle
	case p.AwaitingDue:
		return stateAwaitingDue
	case p.AwaitingConfirm:
		return stateAwaitingConfirm
	default:
		return stateIdle
	}
}

type turnResp struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResp struct {
	SessionID    string            `json:"session_id"`
	Turns        []turnResp        `json:"turns"`
	PendingState string            `json:"pending_state"`
	RetrievedAt  response.DateTime `json:"retrieved_at"`
}

func (h *handler) newHistoryResp(sessionID string, st *session.State) historyResp {
	turns := make([]turnResp, len(st.History))
	for i, t := range st.History {
		turns[i] = turnResp{Role: string(t.Role), Content: t.Content}
	}
	return historyResp{
		SessionID:    sessionID,
		Turns:        turns,
		PendingState: pendingStateOf(st.Pending),
		RetrievedAt:  response.DateTime(time.Now()),
	}
}
