package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaBetter-School/ai-voice-assistant/config"
	_ "github.com/AlmaBetter-School/ai-voice-assistant/docs" // Swagger docs
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/confirm"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	httpDelivery "github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation/delivery/httpapi"
	tgDelivery "github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation/delivery/telegram"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation/dispatcher"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation/extractor"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation/usecase"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/httpserver"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/middleware"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/datemath"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gcalendar"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gemini"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/speech"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/telegram"
)

// @title       AI Voice Assistant API
// @description Conversational voice/text assistant with Gemini LLM task extraction, due-date resolution, and confirm-before-save.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting AI Voice Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. LLM extractor
	var llm *gemini.Client
	if cfg.Gemini.APIKey != "" {
		llm = gemini.NewClient(cfg.Gemini.APIKey)
		llm.SetModel(cfg.Gemini.Model)
	} else {
		logger.Warn(ctx, "GEMINI_API_KEY not set, assistant will reply with a fixed notice")
	}
	intentExtractor := extractor.New(logger, llm, cfg.Assistant.Timezone, cfg.Gemini.Timeout)

	// 4. Task backend
	var taskDispatcher conversation.ActionDispatcher
	switch cfg.Tasks.Backend {
	case "calendar":
		if cfg.Calendar.CredentialsPath == "" {
			logger.Error(ctx, "tasks.backend=calendar requires calendar.credentials_path")
			return
		}
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.Calendar.CredentialsPath)
		if calErr != nil {
			logger.Error(ctx, "Google Calendar init failed: ", calErr)
			return
		}
		logger.Info(ctx, "✅ Google Calendar initialized")
		taskDispatcher = dispatcher.NewCalendar(logger, calendarClient, cfg.Calendar.CalendarID)
	default:
		if cfg.Tasks.WebhookURL == "" {
			logger.Warn(ctx, "No task webhook configured, confirmed tasks run in dry-run mode")
		}
		taskDispatcher = dispatcher.NewWebhook(logger, cfg.Tasks.WebhookURL, cfg.Tasks.Timeout)
	}

	// 5. Speech services (optional)
	transcriber := speech.DisabledTranscriber()
	if cfg.Speech.STTURL != "" {
		transcriber = speech.NewTranscriber(logger, cfg.Speech.STTURL, 0)
		logger.Infof(ctx, "Transcriber enabled at %s", cfg.Speech.STTURL)
	}
	synthesizer := speech.DisabledSynthesizer()
	if cfg.Speech.TTSURL != "" {
		synthesizer = speech.NewSynthesizer(logger, cfg.Speech.TTSURL, cfg.Speech.OutDir, 0)
		logger.Infof(ctx, "Synthesizer enabled at %s", cfg.Speech.TTSURL)
	}

	// 6. Date math
	dateMathParser, dtErr := datemath.NewParser(cfg.Assistant.Timezone)
	if dtErr != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Assistant.Timezone, dtErr)
		dateMathParser, _ = datemath.NewParser("UTC")
	}

	// 7. Conversation UseCase
	conversationUC := usecase.New(
		logger,
		intentExtractor,
		taskDispatcher,
		transcriber,
		synthesizer,
		confirm.New(),
		dateMathParser,
		conversation.ProposalPolicy(cfg.Assistant.ProposalPolicy),
		cfg.Assistant.HistoryWindow,
	)

	// 8. Sessions and deliveries
	sessions := session.NewStore(cfg.Session.Capacity, cfg.Session.TTL)
	chatHandler := httpDelivery.New(logger, conversationUC, sessions)

	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, conversationUC, sessions, telegramBot)

		// Register webhook: auto-detect ngrok or fall back to manual config
		webhookURL := cfg.Telegram.WebhookURL
		if webhookURL == "" {
			ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
			} else {
				webhookURL = ngrokURL + "/webhook/telegram"
				logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
			}
		}

		if webhookURL != "" {
			if whErr := telegramBot.SetWebhook(webhookURL); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
			}
		}
	} else {
		logger.Warn(ctx, "TELEGRAM_BOT_TOKEN not set, skipping Telegram delivery")
	}

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Middleware:      middleware.New(logger, cfg.RateLimit.RequestsPerMin),
		ChatHandler:     chatHandler,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
