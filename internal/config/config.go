// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfiguration is returned when required configuration is missing.
var ErrConfiguration = errors.New("configuration error")

// Config holds all configuration parameters for the application.
type Config struct {
	Database DatabaseConfig
	Ingest   IngestConfig
	Server   ServerConfig
	Jira     JiraConfig
	LogLevel string
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// IngestConfig holds pipeline settings.
type IngestConfig struct {
	// KeepRaw controls whether the full source row is stored with each issue.
	KeepRaw     bool
	BatchSize   int
	PreviewSize int

	KeyColumns     []string
	SummaryColumns []string
	StatusColumns  []string
	DoneTokens     []string
	SprintPrefix   string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr               string
	MaxUploadMB        int
	CORSAllowedOrigins []string
	AutoMigrate        bool
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL         string
	Username    string
	Token       string
	SprintField string
}

// ConnString returns the pgx connection string. DATABASE_URL wins over the
// individual PG* settings.
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LoadConfig initializes and loads configuration from a .env file (if any)
// and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindings := map[string]string{
		"database.url":           "DATABASE_URL",
		"database.host":          "PGHOST",
		"database.port":          "PGPORT",
		"database.name":          "PGDATABASE",
		"database.user":          "PGUSER",
		"database.password":      "PGPASSWORD",
		"database.sslmode":       "PGSSLMODE",
		"ingest.keep_raw":        "KEEP_RAW",
		"ingest.batch_size":      "BATCH_SIZE",
		"ingest.preview_size":    "PREVIEW_SIZE",
		"ingest.key_columns":     "KEY_COLUMNS",
		"ingest.summary_columns": "SUMMARY_COLUMNS",
		"ingest.status_columns":  "STATUS_COLUMNS",
		"ingest.done_tokens":     "DONE_TOKENS",
		"ingest.sprint_prefix":   "SPRINT_PREFIX",
		"server.addr":            "HTTP_ADDR",
		"server.max_upload_mb":   "MAX_UPLOAD_MB",
		"server.cors_origins":    "CORS_ALLOWED_ORIGINS",
		"server.auto_migrate":    "AUTO_MIGRATE",
		"jira.url":               "JIRA_URL",
		"jira.username":          "JIRA_USERNAME",
		"jira.token":             "JIRA_TOKEN",
		"jira.sprint_field":      "JIRA_SPRINT_FIELD",
		"log_level":              "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind %s", env)
		}
	}

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("ingest.keep_raw", true)
	v.SetDefault("ingest.batch_size", 1000)
	v.SetDefault("ingest.preview_size", 3)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.auto_migrate", false)
	v.SetDefault("jira.sprint_field", "customfield_10020")
	v.SetDefault("log_level", "info")

	config := &Config{
		Database: DatabaseConfig{
			URL:      v.GetString("database.url"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			Name:     v.GetString("database.name"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Ingest: IngestConfig{
			KeepRaw:        v.GetBool("ingest.keep_raw"),
			BatchSize:      v.GetInt("ingest.batch_size"),
			PreviewSize:    v.GetInt("ingest.preview_size"),
			KeyColumns:     splitList(v.GetString("ingest.key_columns")),
			SummaryColumns: splitList(v.GetString("ingest.summary_columns")),
			StatusColumns:  splitList(v.GetString("ingest.status_columns")),
			DoneTokens:     splitList(v.GetString("ingest.done_tokens")),
			SprintPrefix:   strings.TrimSpace(v.GetString("ingest.sprint_prefix")),
		},
		Server: ServerConfig{
			Addr:               v.GetString("server.addr"),
			MaxUploadMB:        v.GetInt("server.max_upload_mb"),
			CORSAllowedOrigins: splitList(v.GetString("server.cors_origins")),
			AutoMigrate:        v.GetBool("server.auto_migrate"),
		},
		Jira: JiraConfig{
			URL:         strings.TrimRight(v.GetString("jira.url"), "/"),
			Username:    v.GetString("jira.username"),
			Token:       v.GetString("jira.token"),
			SprintField: v.GetString("jira.sprint_field"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig rejects values that can never work, regardless of command.
func validateConfig(config *Config) error {
	if config.Ingest.BatchSize <= 0 {
		return errors.Wrapf(ErrConfiguration, "BATCH_SIZE must be positive, got %d", config.Ingest.BatchSize)
	}
	if config.Ingest.PreviewSize < 0 {
		return errors.Wrapf(ErrConfiguration, "PREVIEW_SIZE must not be negative, got %d", config.Ingest.PreviewSize)
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.Wrapf(ErrConfiguration, "MAX_UPLOAD_MB must be positive, got %d", config.Server.MaxUploadMB)
	}
	return nil
}

// ValidateDatabaseConfig validates the Postgres settings needed by any
// command that touches the canonical table.
func ValidateDatabaseConfig(config *Config) error {
	if config.Database.URL != "" {
		return nil
	}

	var missingVars []string
	if config.Database.Host == "" {
		missingVars = append(missingVars, "PGHOST")
	}
	if config.Database.Name == "" {
		missingVars = append(missingVars, "PGDATABASE")
	}
	if config.Database.User == "" {
		missingVars = append(missingVars, "PGUSER")
	}
	if config.Database.Password == "" {
		missingVars = append(missingVars, "PGPASSWORD")
	}

	if len(missingVars) > 0 {
		return errors.Wrapf(ErrConfiguration, "missing required environment variables: %v (or set DATABASE_URL)", missingVars)
	}

	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Username == "" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return errors.Wrapf(ErrConfiguration, "missing required environment variables: %v", missingVars)
	}

	return nil
}
