package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat              string   `mapstructure:"log_format" validate:"required,oneof=json text"`
	StaticDir              string   `mapstructure:"static_dir"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig selects the storage engine. A non-empty URL selects
// PostgreSQL; otherwise the SQLite file at SQLitePath is used.
type DatabaseConfig struct {
	URL        string `mapstructure:"url" validate:"omitempty,url"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_without=URL"`
}

// Database driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Driver returns the database/sql driver name for the configured engine.
func (c DatabaseConfig) Driver() string {
	if c.URL != "" {
		return DriverPostgres
	}
	return DriverSQLite
}

// DSN returns the data source name passed to sql.Open.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return c.SQLitePath
}

// AuthConfig contains access token settings. An empty JWTSecret leaves the
// API open.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// Enabled reports whether API requests must carry a bearer token.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// LLM providers supported by the autofill endpoint.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// LLMConfig contains the autofill provider settings. An empty APIKey
// disables autofill.
type LLMConfig struct {
	Provider       string `mapstructure:"provider" validate:"required,oneof=groq gemini"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// Timeout returns the per-request deadline for provider calls.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether an API key is present.
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}
