package model

// Scope carries the identity of the conversation a request belongs to.
type Scope struct {
	SessionID string // Stable conversation key (UUID or "telegram_<chatID>")
	UserID    string
	Username  string
}

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
