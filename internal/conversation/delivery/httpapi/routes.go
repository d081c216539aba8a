package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Chat turns are rate-limited per source; transcript reads are not.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	chat := rg.Group("/chat")
	{
		chat.POST("", mw.RateLimit(), h.Chat)
		chat.GET("/:session_id/history", h.History)
		chat.POST("/:session_id/reset", h.Reset)
	}
}
