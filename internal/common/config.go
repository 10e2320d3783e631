package common

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration. Values come from config.yaml
// when present, overridden by environment variables. Loaded once in main and
// passed into constructors; nothing reads it ambiently.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
	DocAI      DocAIConfig      `yaml:"docai"`
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" env:"DB_URL"`
	MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"20"`
	MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" env-default:"30m"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"5m"`
	DialTimeout     time.Duration `yaml:"dial_timeout" env:"DB_DIAL_TIMEOUT" env-default:"3s"`
}

// LLMConfig holds the field-extraction backend settings.
type LLMConfig struct {
	Model       string        `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	APIKey      string        `yaml:"-" env:"OPENAI_API_KEY"`
	BaseURL     string        `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:""`
	Temperature float32       `yaml:"temperature" env:"OPENAI_TEMPERATURE" env-default:"0"`
	Timeout     time.Duration `yaml:"timeout" env:"OPENAI_TIMEOUT" env-default:"45s"`
}

// DocAIConfig holds the document summarizer settings (Vertex AI).
type DocAIConfig struct {
	ProjectID string `yaml:"project_id" env:"VERTEX_PROJECT_ID"`
	Region    string `yaml:"region" env:"VERTEX_REGION" env-default:"asia-southeast1"`
	Model     string `yaml:"model" env:"VERTEX_MODEL" env-default:"gemini-1.5-pro"`
}

// StorageConfig holds the certificate file store settings.
type StorageConfig struct {
	Bucket     string `yaml:"bucket" env:"CERT_BUCKET"`
	FolderRoot string `yaml:"folder_root" env:"CERT_FOLDER_ROOT" env-default:"certificates"`
}

// ExtractionConfig exposes the hand-tuned acceptance thresholds.
type ExtractionConfig struct {
	MinConfidence       float64 `yaml:"min_confidence" env:"EXTRACT_MIN_CONFIDENCE" env-default:"0.40"`
	DuplicateThreshold  float64 `yaml:"duplicate_threshold" env:"DUPLICATE_THRESHOLD" env-default:"0.5"`
	CriticalDueSoonDays int     `yaml:"critical_due_soon_days" env:"CRITICAL_DUE_SOON_DAYS" env-default:"7"`
	CriticalOverdueDays int     `yaml:"critical_overdue_days" env:"CRITICAL_OVERDUE_DAYS" env-default:"30"`
}

// LoadConfig reads config.yaml if it exists, then applies environment
// overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return &cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_URL is required: %w", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required: %w", ErrInvalidInput)
	}
	return nil
}
