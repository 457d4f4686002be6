package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// LLM gateway
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Advice persistence auth
	JWTSecret string

	// Summary defaults
	MonthlyBudgetPaise int64
	AverageWindowDays  int

	// Advice response cache
	AdviceCacheSize int
	AdviceCacheTTL  time.Duration

	// Archive database
	SQLiteDBPath string

	// AMQP archive pipeline (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror (optional, worker only)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	// .env is for local development; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8081"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MonthlyBudgetPaise: getEnvInt64("MONTHLY_BUDGET", 15000) * 100,
		AverageWindowDays:  getEnvInt("AVERAGE_WINDOW_DAYS", 15),

		AdviceCacheSize: getEnvInt("ADVICE_CACHE_SIZE", 100),
		AdviceCacheTTL:  getEnvDuration("ADVICE_CACHE_TTL", 5*time.Minute),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/paisa.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "paisa"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "archive_expenses"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),
	}
}

// Validate checks the configuration and returns a combined error listing
// everything wrong with it.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.OpenAITimeout < time.Second || c.OpenAITimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid OpenAI timeout %v: must be between 1s and 5m", c.OpenAITimeout))
	}

	if c.MonthlyBudgetPaise < 0 {
		errs = append(errs, "monthly budget cannot be negative")
	}
	if c.AverageWindowDays < 1 {
		errs = append(errs, fmt.Sprintf("invalid average window %d: must be at least 1 day", c.AverageWindowDays))
	}

	if c.AdviceCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid advice cache size %d: must be at least 1", c.AdviceCacheSize))
	}
	if c.AdviceCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid advice cache TTL %v: must be at least 1 second", c.AdviceCacheTTL))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errs = append(errs, "Google sheet name cannot be empty when a spreadsheet ID is provided")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
