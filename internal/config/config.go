package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Databases
	SQLiteDBPath  string
	CatalogDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// External categorizer API (optional)
	CategorizerURL     string
	CategorizerToken   string
	CategorizerTimeout time.Duration

	// Google Sheets export (optional, worker only)
	SheetsExportEnabled bool
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Recommendation engine
	RecommendTopN       int
	MilitaryWaiverOdds  float64
	BaselineRatePercent float64
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8081"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/cardwise.db"),
		CatalogDBPath: getEnv("CATALOG_DB_PATH", "./data/catalog.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cardwise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "analyze_statements"),

		CategorizerURL:     getEnv("CATEGORIZER_URL", ""),
		CategorizerToken:   getEnv("CATEGORIZER_TOKEN", ""),
		CategorizerTimeout: getEnvDuration("CATEGORIZER_TIMEOUT", 5*time.Second),

		SheetsExportEnabled: getEnvBool("SHEETS_EXPORT_ENABLED", false),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Reports"),

		RecommendTopN:       getEnvInt("RECOMMEND_TOP_N", 10),
		MilitaryWaiverOdds:  getEnvFloat("MILITARY_WAIVER_ODDS", 0.5),
		BaselineRatePercent: getEnvFloat("BASELINE_RATE_PERCENT", 1.0),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate database paths
	for name, path := range map[string]string{
		"SQLITE_DB_PATH":  c.SQLiteDBPath,
		"CATALOG_DB_PATH": c.CatalogDBPath,
	} {
		if path == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", name))
			continue
		}
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
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

	// Validate external categorizer if provided
	if c.CategorizerURL != "" {
		if parsedURL, err := url.Parse(c.CategorizerURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid categorizer URL '%s': %v", c.CategorizerURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid categorizer URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.CategorizerTimeout < time.Second {
			errors = append(errors, fmt.Sprintf("invalid categorizer timeout %v: must be at least 1 second", c.CategorizerTimeout))
		} else if c.CategorizerTimeout > time.Minute {
			errors = append(errors, fmt.Sprintf("invalid categorizer timeout %v: must be at most 1 minute", c.CategorizerTimeout))
		}
	}

	// Validate Sheets export if enabled
	if c.SheetsExportEnabled {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when sheets export is enabled")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when sheets export is enabled")
		}
	}

	// Validate engine options
	if c.RecommendTopN < 1 {
		errors = append(errors, fmt.Sprintf("invalid recommendation top N %d: must be at least 1", c.RecommendTopN))
	} else if c.RecommendTopN > 100 {
		errors = append(errors, fmt.Sprintf("invalid recommendation top N %d: must be at most 100", c.RecommendTopN))
	}
	if c.MilitaryWaiverOdds < 0 || c.MilitaryWaiverOdds > 1 {
		errors = append(errors, fmt.Sprintf("invalid military waiver odds %v: must be between 0 and 1", c.MilitaryWaiverOdds))
	}
	if c.BaselineRatePercent < 0 || c.BaselineRatePercent > 10 {
		errors = append(errors, fmt.Sprintf("invalid baseline rate %v: must be between 0 and 10 percent", c.BaselineRatePercent))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
