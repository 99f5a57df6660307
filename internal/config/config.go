package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
)

type Config struct {
	// Storage backend
	DataBackend  string
	SQLiteDBPath string

	// Memory backend seed directory
	DataDirectory string

	// AMQP change events (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets backend
	SpreadsheetID string
	SheetName     string

	// Recurring sync loop
	SyncInterval time.Duration

	// Defaults for a session whose settings slice was never written
	HourlyWage   float64
	MonthlyLimit float64
}

func Load() *Config {
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budgetflow.db"),

		DataDirectory: getEnv("DATA_DIRECTORY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "slice_changes"),

		SpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetName:     getEnv("SHEETS_SHEET_NAME", "State"),

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 1*time.Hour),

		HourlyWage:   getEnvFloat("DEFAULT_HOURLY_WAGE", 50),
		MonthlyLimit: getEnvFloat("DEFAULT_MONTHLY_LIMIT", 80),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.DataBackend == "sheets" && c.SpreadsheetID == "" {
		errors = append(errors, "spreadsheet id is required when using sheets backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SyncInterval <= 0 {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be positive", c.SyncInterval))
	}

	if c.HourlyWage <= 0 {
		errors = append(errors, fmt.Sprintf("invalid default hourly wage %v: must be positive", c.HourlyWage))
	}
	if c.MonthlyLimit < 0 || c.MonthlyLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid default monthly limit %v: must be between 0 and 100", c.MonthlyLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// DefaultSettings converts the configured defaults into session settings.
func (c *Config) DefaultSettings() core.Settings {
	return core.Settings{
		HourlyWage:   decimal.NewFromFloat(c.HourlyWage),
		MonthlyLimit: c.MonthlyLimit,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
