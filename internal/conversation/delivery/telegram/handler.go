package telegram

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/model"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
	pkgResponse "github.com/AlmaBetter-School/ai-voice-assistant/pkg/response"
	pkgTelegram "github.com/AlmaBetter-School/ai-voice-assistant/pkg/telegram"
)

type handler struct {
	l        pkgLog.Logger
	uc       conversation.UseCase
	sessions *session.Store
	bot      *pkgTelegram.Bot
}

const (
	msgWelcome = "👋 Hi! I’m your voice task assistant.\n\nChat with me about anything. When something sounds like a task, I’ll offer to save it with a due date and smart notes.\n\n_Try: \"remind me to call mom tomorrow\"_"
	msgHelp    = "*How it works:*\n\nJust talk to me, by text or voice note. When I spot a task I’ll ask for a date if needed and confirm before saving.\n\n`/reset` starts the conversation over."
	msgReset   = "🧹 Conversation cleared. What’s next?"
	msgFault   = "Something went wrong while processing your message. Please try again."
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine to avoid the Telegram webhook timeout (the
// LLM turn can take several seconds).
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Snapshot the message before spawning goroutine to avoid data races on gin context
	msg := update.Message

	// Critical: process in goroutine, return 200 immediately to Telegram
	go func() {
		// Detach from HTTP request context (which gets cancelled after response)
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			// Best-effort error notification to user
			_ = h.bot.SendMessage(msg.Chat.ID, msgFault)
		}
	}()

	// Telegram acknowledged immediately
	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message as one conversation
// turn keyed by chat ID.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	sessionID := fmt.Sprintf("telegram_%d", msg.Chat.ID)

	// One turn at a time per chat: webhook updates arrive concurrently
	// and an LLM turn takes seconds, so overlapping turns would lose
	// each other's history without this.
	unlock := h.sessions.LockSession(sessionID)
	defer unlock()

	// ---- Built-in commands ----
	switch msg.Text {
	case "/start":
		return h.bot.SendMessageWithMode(msg.Chat.ID, msgWelcome, "Markdown")
	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID, msgHelp, "Markdown")
	case "/reset":
		h.sessions.Reset(sessionID)
		return h.bot.SendMessage(msg.Chat.ID, msgReset)
	}

	// Voice notes go through the transcriber via a downloaded temp file
	audioPath := ""
	if msg.Voice != nil {
		path, err := h.bot.DownloadVoice(msg.Voice.FileID, "")
		if err != nil {
			h.l.Warnf(ctx, "telegram handler: voice download failed: %v", err)
		} else {
			audioPath = path
			defer os.Remove(path)
		}
	}

	if msg.Text == "" && audioPath == "" {
		return nil
	}

	sc := model.Scope{SessionID: sessionID}
	if msg.From != nil {
		sc.UserID = fmt.Sprintf("telegram_%d", msg.From.ID)
		sc.Username = msg.From.Username
	}

	st, ok := h.sessions.Get(sessionID)
	if !ok {
		st = &session.State{}
	}
	out, err := h.uc.HandleTurn(ctx, sc, conversation.TurnInput{
		Text:      msg.Text,
		AudioPath: audioPath,
		History:   st.History,
		Pending:   st.Pending,
	})
	if err != nil {
		// Stored state stays untouched; the caller sends the fault notice.
		return fmt.Errorf("turn failed: %w", err)
	}

	h.sessions.Put(sessionID, &session.State{History: out.History, Pending: out.Pending})

	if out.Reply == "" {
		return nil
	}
	return h.bot.SendMessageWithMode(msg.Chat.ID, out.Reply, "Markdown")
}
