package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when the completion provider has no credentials.
var ErrMissingAPIKey = errors.New("extraction API key is required")

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Log        LogConfig
	Extraction ExtractionConfig
	CORS       CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds completion provider and prompt settings.
type ExtractionConfig struct {
	Provider           string  `mapstructure:"provider"`
	APIKey             string  `mapstructure:"api_key"`
	Model              string  `mapstructure:"model"`
	Endpoint           string  `mapstructure:"endpoint"`
	TimeoutSecs        int     `mapstructure:"timeout_secs"`
	Temperature        float64 `mapstructure:"temperature"`
	MaxTokens          int     `mapstructure:"max_tokens"`
	PromptTemplatePath string  `mapstructure:"prompt_template_path"`
}

// Timeout returns the provider call timeout.
func (e *ExtractionConfig) Timeout() time.Duration {
	if e.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.TimeoutSecs) * time.Second
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Extraction.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Extraction.MaxTokens <= 0 {
		return fmt.Errorf("extraction max_tokens must be positive, got %d", c.Extraction.MaxTokens)
	}
	return nil
}

// Load reads configuration from environment variables with the VOXFORM_ prefix.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("VOXFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "voxform")
	v.SetDefault("db.password", "voxform_secret")
	v.SetDefault("db.name", "voxform_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Extraction defaults
	v.SetDefault("extraction.provider", "openai")
	v.SetDefault("extraction.api_key", "")
	v.SetDefault("extraction.model", "")
	v.SetDefault("extraction.endpoint", "")
	v.SetDefault("extraction.timeout_secs", 30)
	v.SetDefault("extraction.temperature", 0.1)
	v.SetDefault("extraction.max_tokens", 2000)
	v.SetDefault("extraction.prompt_template_path", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "VOXFORM_SERVER_PORT",
		"server.read_timeout":             "VOXFORM_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "VOXFORM_SERVER_WRITE_TIMEOUT",
		"server.environment":              "VOXFORM_SERVER_ENVIRONMENT",
		"db.host":                         "VOXFORM_DB_HOST",
		"db.port":                         "VOXFORM_DB_PORT",
		"db.user":                         "VOXFORM_DB_USER",
		"db.password":                     "VOXFORM_DB_PASSWORD",
		"db.name":                         "VOXFORM_DB_NAME",
		"db.sslmode":                      "VOXFORM_DB_SSLMODE",
		"db.max_open":                     "VOXFORM_DB_MAX_OPEN",
		"db.max_idle":                     "VOXFORM_DB_MAX_IDLE",
		"log.level":                       "VOXFORM_LOG_LEVEL",
		"log.format":                      "VOXFORM_LOG_FORMAT",
		"cors.allowed_origins":            "VOXFORM_CORS_ALLOWED_ORIGINS",
		"extraction.provider":             "VOXFORM_EXTRACTION_PROVIDER",
		"extraction.api_key":              "VOXFORM_EXTRACTION_API_KEY",
		"extraction.model":                "VOXFORM_EXTRACTION_MODEL",
		"extraction.endpoint":             "VOXFORM_EXTRACTION_ENDPOINT",
		"extraction.timeout_secs":         "VOXFORM_EXTRACTION_TIMEOUT_SECS",
		"extraction.temperature":          "VOXFORM_EXTRACTION_TEMPERATURE",
		"extraction.max_tokens":           "VOXFORM_EXTRACTION_MAX_TOKENS",
		"extraction.prompt_template_path": "VOXFORM_EXTRACTION_PROMPT_TEMPLATE_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if VOXFORM_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VOXFORM_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extraction = ExtractionConfig{
		Provider:           v.GetString("extraction.provider"),
		APIKey:             v.GetString("extraction.api_key"),
		Model:              v.GetString("extraction.model"),
		Endpoint:           v.GetString("extraction.endpoint"),
		TimeoutSecs:        v.GetInt("extraction.timeout_secs"),
		Temperature:        v.GetFloat64("extraction.temperature"),
		MaxTokens:          v.GetInt("extraction.max_tokens"),
		PromptTemplatePath: v.GetString("extraction.prompt_template_path"),
	}

	return cfg, nil
}
