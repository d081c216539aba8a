package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Voice assistant specifics
	Assistant AssistantConfig
	Gemini    GeminiConfig
	Tasks     TasksConfig
	Calendar  CalendarConfig
	Speech    SpeechConfig
	Telegram  TelegramConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// AssistantConfig tunes conversation behaviour.
type AssistantConfig struct {
	Timezone       string
	ProposalPolicy string // "overwrite" or "keep"
	HistoryWindow  int    // Trailing turns the extractor sees
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// TasksConfig selects and configures where confirmed tasks go.
type TasksConfig struct {
	Backend    string // "webhook" or "calendar"
	WebhookURL string
	Timeout    time.Duration
}

type CalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

type SpeechConfig struct {
	STTURL string
	TTSURL string
	OutDir string
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
}

type SessionConfig struct {
	Capacity int
	TTL      time.Duration
}

type RateLimitConfig struct {
	RequestsPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Assistant
	cfg.Assistant.Timezone = viper.GetString("assistant.timezone")
	cfg.Assistant.ProposalPolicy = viper.GetString("assistant.proposal_policy")
	cfg.Assistant.HistoryWindow = viper.GetInt("assistant.history_window")

	// Gemini
	cfg.Gemini.APIKey = viper.GetString("gemini.api_key")
	cfg.Gemini.Model = viper.GetString("gemini.model")
	cfg.Gemini.Timeout = viper.GetDuration("gemini.timeout")
	if geminiKey := viper.GetString("gemini_api_key"); geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}

	// Tasks
	cfg.Tasks.Backend = viper.GetString("tasks.backend")
	cfg.Tasks.WebhookURL = viper.GetString("tasks.webhook_url")
	cfg.Tasks.Timeout = viper.GetDuration("tasks.timeout")
	if taskWebhook := viper.GetString("task_webhook_url"); taskWebhook != "" {
		cfg.Tasks.WebhookURL = taskWebhook
	}

	// Google Calendar
	cfg.Calendar.CredentialsPath = viper.GetString("calendar.credentials_path")
	cfg.Calendar.CalendarID = viper.GetString("calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.Calendar.CredentialsPath = googleCreds
	}

	// Speech
	cfg.Speech.STTURL = viper.GetString("speech.stt_url")
	cfg.Speech.TTSURL = viper.GetString("speech.tts_url")
	cfg.Speech.OutDir = viper.GetString("speech.out_dir")

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Sessions & rate limiting
	cfg.Session.Capacity = viper.GetInt("session.capacity")
	cfg.Session.TTL = viper.GetDuration("session.ttl")
	cfg.RateLimit.RequestsPerMin = viper.GetInt("rate_limit.requests_per_min")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Tasks.Backend {
	case "webhook", "calendar":
	default:
		return fmt.Errorf("tasks.backend must be \"webhook\" or \"calendar\", got %q", cfg.Tasks.Backend)
	}
	switch cfg.Assistant.ProposalPolicy {
	case "overwrite", "keep":
	default:
		return fmt.Errorf("assistant.proposal_policy must be \"overwrite\" or \"keep\", got %q", cfg.Assistant.ProposalPolicy)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("assistant.timezone", "Asia/Kolkata")
	viper.SetDefault("assistant.proposal_policy", "overwrite")
	viper.SetDefault("assistant.history_window", 12)

	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", "30s")

	viper.SetDefault("tasks.backend", "webhook")
	viper.SetDefault("tasks.timeout", "10s")

	viper.SetDefault("calendar.calendar_id", "primary")

	viper.SetDefault("session.capacity", 1000)
	viper.SetDefault("session.ttl", "2h")
	viper.SetDefault("rate_limit.requests_per_min", 60)
}
