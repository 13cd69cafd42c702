// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":8080"
	DefaultJWTExpiresIn  = "24h"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "leadflow"
	DefaultPGSSLMode     = "disable"
	DefaultLLMBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel      = "gpt-4o-mini"
	DefaultTimezone      = "America/Sao_Paulo"
	DefaultSlotHorizon   = 7
	DefaultResyncPattern = "@every 10m"
	DefaultSMTPPort      = 587
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Admin    AdminConfig    `toml:"admin"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	LLM      LLMConfig      `toml:"llm"`
	Calendar CalendarConfig `toml:"calendar"`
	CRM      CRMConfig      `toml:"crm"`
	Notify   NotifyConfig   `toml:"notify"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AdminConfig holds the initial operator account (username, password, email).
type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Email    string `toml:"email"`
}

// AuthConfig holds JWT secret and token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// LLMConfig holds the OpenAI-compatible endpoint used for reply generation
// and lead extraction.
type LLMConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RequestsPerMin int    `toml:"requests_per_min"`
}

// CalendarConfig holds Google Calendar OAuth credentials and slot parameters.
type CalendarConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	CalendarID   string `toml:"calendar_id"`
	Timezone     string `toml:"timezone"`
	HorizonDays  int    `toml:"horizon_days"`
}

// CRMConfig holds Pipefy API access and the pipe that receives lead cards.
type CRMConfig struct {
	APIURL        string `toml:"api_url"`
	APIToken      string `toml:"api_token"`
	PipeID        string `toml:"pipe_id"`
	ResyncPattern string `toml:"resync_pattern"`
}

// NotifyConfig holds SMTP settings for sales-team booking notifications.
// Notifications are disabled when Host is empty.
type NotifyConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	To       string `toml:"to"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "change-your-password-here",
			Email:    "you@example.com",
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		LLM: LLMConfig{
			BaseURL: DefaultLLMBaseURL,
			Model:   DefaultLLMModel,
		},
		Calendar: CalendarConfig{
			CalendarID:  "primary",
			Timezone:    DefaultTimezone,
			HorizonDays: DefaultSlotHorizon,
		},
		CRM: CRMConfig{
			APIURL:        "https://api.pipefy.com/graphql",
			ResyncPattern: DefaultResyncPattern,
		},
		Notify: NotifyConfig{
			Port: DefaultSMTPPort,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
