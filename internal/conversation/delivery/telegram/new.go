package telegram

import (
	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
	pkgTelegram "github.com/AlmaBetter-School/ai-voice-assistant/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// New creates a new Telegram delivery handler.
func New(
	l pkgLog.Logger,
	uc conversation.UseCase,
	sessions *session.Store,
	bot *pkgTelegram.Bot,
) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		sessions: sessions,
		bot:      bot,
	}
}
