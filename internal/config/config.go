package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration settings.
type Config struct {
	Environment string `envconfig:"PVG_ENV" default:"development"`

	HTTPPort    int           `envconfig:"PVG_HTTP_PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"PVG_HTTP_TIMEOUT" default:"15s"`

	MaxConcurrentWorkflows int64         `envconfig:"PVG_MAX_CONCURRENT_WORKFLOWS" default:"8"`
	AdapterTimeout         time.Duration `envconfig:"PVG_ADAPTER_TIMEOUT" default:"30s"`
	VideoPollInterval      time.Duration `envconfig:"PVG_VIDEO_POLL_INTERVAL" default:"10s"`
	VideoPollMaxAttempts   int           `envconfig:"PVG_VIDEO_POLL_MAX_ATTEMPTS" default:"30"`

	OpenAIBaseURL      string `envconfig:"PVG_OPENAI_BASE_URL" default:"https://api.openai.com"`
	HuggingFaceBaseURL string `envconfig:"PVG_HUGGINGFACE_BASE_URL" default:"https://api-inference.huggingface.co"`
	RunwayBaseURL      string `envconfig:"PVG_RUNWAY_BASE_URL" default:"https://api.runwayml.com"`
	SheetsBaseURL      string `envconfig:"PVG_SHEETS_BASE_URL" default:"https://sheets.googleapis.com"`
	GmailBaseURL       string `envconfig:"PVG_GMAIL_BASE_URL" default:"https://gmail.googleapis.com"`

	Credentials Credentials

	ShutdownTimeout time.Duration `envconfig:"PVG_SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"PVG_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"PVG_LOG_FORMAT" default:"json"`
}

// Credentials are the named secrets resolved from the environment.
// OpenAI and RunwayML are mandatory for a task to run; the rest gate
// optional stages.
type Credentials struct {
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	HuggingFaceAPIKey   string `envconfig:"HUGGINGFACE_API_KEY"`
	RunwayMLAPIKey      string `envconfig:"RUNWAYML_API_KEY"`
	GoogleSpreadsheetID string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GmailRecipient      string `envconfig:"GMAIL_RECIPIENT"`
	GoogleAPIToken      string `envconfig:"GOOGLE_API_TOKEN"`
}

// HasMandatory reports whether the credentials required before any
// pipeline stage may run are present.
func (c Credentials) HasMandatory() bool {
	return c.OpenAIAPIKey != "" && c.RunwayMLAPIKey != ""
}

// SheetsEnabled reports whether the spreadsheet logging stage is configured.
func (c Credentials) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != "" && c.GoogleAPIToken != ""
}

// GmailEnabled reports whether the email notification stage is configured.
func (c Credentials) GmailEnabled() bool {
	return c.GmailRecipient != "" && c.GoogleAPIToken != ""
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.MaxConcurrentWorkflows <= 0 {
		return fmt.Errorf("max concurrent workflows must be positive: %d", c.MaxConcurrentWorkflows)
	}

	if c.VideoPollInterval <= 0 {
		return fmt.Errorf("video poll interval must be positive: %s", c.VideoPollInterval)
	}

	if c.VideoPollMaxAttempts <= 0 {
		return fmt.Errorf("video poll max attempts must be positive: %d", c.VideoPollMaxAttempts)
	}

	if c.AdapterTimeout <= 0 {
		return fmt.Errorf("adapter timeout must be positive: %s", c.AdapterTimeout)
	}

	return nil
}
