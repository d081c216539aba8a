package httpapi

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/model"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/response"
)

// msgTurnFault is shown when a turn fails unexpectedly. The stored
// session state is left exactly as it was before the turn.
const msgTurnFault = "Sorry, something went wrong on my side. Let’s try that again."

// Chat godoc
// @Summary     Run one conversation turn
// @Description Sends a user message (text or audio) and returns the assistant reply plus updated proposal stage.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body chatReq true "Turn input"
// @Success     200 {object} chatResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processChatReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	// Turns within a session run one at a time; overlapping requests
	// queue here instead of overwriting each other's state.
	unlock := h.sessions.LockSession(sessionID)
	defer unlock()

	st, ok := h.sessions.Get(sessionID)
	if !ok {
		st = &session.State{}
	}
	sc := model.Scope{SessionID: sessionID}

	out, err := h.safeTurn(ctx, sc, conversation.TurnInput{
		Text:      req.Message,
		AudioPath: req.AudioPath,
		SpeakBack: req.SpeakBack,
		History:   st.History,
		Pending:   st.Pending,
	})
	if err != nil {
		h.l.Errorf(ctx, "httpapi: turn failed for session %s: %v", sessionID, err)
		response.OK(c, chatResp{
			SessionID:    sessionID,
			Reply:        msgTurnFault,
			PendingState: pendingStateOf(st.Pending),
		})
		return
	}

	h.sessions.Put(sessionID, &session.State{History: out.History, Pending: out.Pending})
	response.OK(c, h.newChatResp(sessionID, out))
}

// safeTurn runs one turn and converts panics into errors so a single
// bad turn can never take the server down or corrupt stored state.
func (h *handler) safeTurn(ctx context.Context, sc model.Scope, input conversation.TurnInput) (out conversation.TurnOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("turn panic: %v", r)
		}
	}()
	return h.uc.HandleTurn(ctx, sc, input)
}

// History godoc
// @Summary     Get conversation transcript
// @Description Returns the full turn history for a session.
// @Tags        Chat
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} historyResp
// @Failure     404 {object} response.Resp "Unknown session"
// @Router      /api/v1/chat/{session_id}/history [GET]
func (h *handler) History(c *gin.Context) {
	sessionID := c.Param("session_id")
	st, ok := h.sessions.Get(sessionID)
	if !ok {
		response.NotFound(c, "session not found")
		return
	}
	response.OK(c, h.newHistoryResp(sessionID, st))
}

// Reset godoc
// @Summary     Reset a conversation
// @Description Clears the session history and any pending task proposal.
// @Tags        Chat
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Unknown session"
// @Router      /api/v1/chat/{session_id}/reset [POST]
func (h *handler) Reset(c *gin.Context) {
	sessionID := c.Param("session_id")

	unlock := h.sessions.LockSession(sessionID)
	defer unlock()

	if _, ok := h.sessions.Get(sessionID); !ok {
		response.NotFound(c, "session not found")
		return
	}
	h.sessions.Reset(sessionID)
	h.l.Infof(c.Request.Context(), "httpapi: session %s reset", sessionID)
	response.OK(c, gin.H{"session_id": sessionID})
}
