package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
)

// processChatReq binds and validates the chat request body.
func (h *handler) processChatReq(c *gin.Context) (chatReq, error) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	if strings.TrimSpace(req.Message) == "" && strings.TrimSpace(req.AudioPath) == "" {
		return req, conversation.ErrEmptyUtterance
	}
	return req, nil
}
