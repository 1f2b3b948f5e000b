// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// The loaded value is threaded explicitly from main into the components
// that need it; there is no process-wide settings singleton.
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	limit := cfg.Memo.MaxLength
//	token := cfg.GetAPIKey(cfg.YNAB.APIKey, "YNAB_API_KEY")
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	YNAB          YNABConfig          `yaml:"ynab"`
	Amazon        AmazonConfig        `yaml:"amazon"`
	Memo          MemoConfig          `yaml:"memo"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// YNABConfig holds budgeting-service API configuration
type YNABConfig struct {
	APIKey         string `yaml:"api_key"`
	BudgetID       string `yaml:"budget_id"`
	NeedsMemoPayee string `yaml:"needs_memo_payee"`
	CompletedPayee string `yaml:"completed_payee"`
	UseMarkdown    bool   `yaml:"use_markdown"`
}

// AmazonConfig holds purchase-history source configuration
type AmazonConfig struct {
	SnapshotPath    string `yaml:"snapshot_path"`
	TransactionDays int    `yaml:"transaction_days"`
	Years           []int  `yaml:"years"`
}

// MemoConfig holds memo rendering configuration
type MemoConfig struct {
	MaxLength    int  `yaml:"max_length"`
	UseAISummary bool `yaml:"use_ai_summary"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${YNAB_API_KEY})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		YNAB: YNABConfig{
			APIKey:         os.Getenv("YNAB_API_KEY"),
			BudgetID:       os.Getenv("YNAB_BUDGET_ID"),
			NeedsMemoPayee: getEnv("YNAB_NEEDS_MEMO_PAYEE", "Amazon - Needs Memo"),
			CompletedPayee: getEnv("YNAB_COMPLETED_PAYEE", "Amazon"),
			UseMarkdown:    getEnvBool("YNAB_USE_MARKDOWN", false),
		},
		Amazon: AmazonConfig{
			SnapshotPath:    getEnv("AMAZON_SNAPSHOT_PATH", "amazon_snapshot.json"),
			TransactionDays: getEnvInt("AMAZON_TRANSACTION_DAYS", 31),
		},
		Memo: MemoConfig{
			MaxLength:    getEnvInt("MEMO_MAX_LENGTH", 500),
			UseAISummary: getEnvBool("MEMO_USE_AI_SUMMARY", false),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("YNAMAZON_DB_PATH", "ynamazon.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the given path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills in values the file or environment left unset
func (c *Config) applyDefaults() {
	if c.YNAB.NeedsMemoPayee == "" {
		c.YNAB.NeedsMemoPayee = "Amazon - Needs Memo"
	}
	if c.YNAB.CompletedPayee == "" {
		c.YNAB.CompletedPayee = "Amazon"
	}
	if c.Amazon.TransactionDays == 0 {
		c.Amazon.TransactionDays = 31
	}
	if c.Memo.MaxLength == 0 {
		c.Memo.MaxLength = 500
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "ynamazon.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// GetAPIKey retrieves an API key from config first, then tries multiple
// environment variable names.
// Usage: GetAPIKey(cfg.YNAB.APIKey, "YNAB_API_KEY", "YNAB_TOKEN")
func (c *Config) GetAPIKey(configValue string, envVarNames ...string) string {
	if configValue != "" {
		return configValue
	}
	for _, envVar := range envVarNames {
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}
	return ""
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback default
func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
