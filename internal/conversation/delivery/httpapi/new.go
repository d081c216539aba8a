package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

// Handler is the public interface for the chat HTTP delivery layer.
type Handler interface {
	Chat(c *gin.Context)
	History(c *gin.Context)
	Reset(c *gin.Context)
}

type handler struct {
	l        pkgLog.Logger
	uc       conversation.UseCase
	sessions *session.Store
}

// New creates a new HTTP handler for the conversation domain.
func New(l pkgLog.Logger, uc conversation.UseCase, sessions *session.Store) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		sessions: sessions,
	}
}
