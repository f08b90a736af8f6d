// Package config loads configuration from environment variables and .env
// files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/moneypipe/moneypipe/internal/domain"
	"github.com/moneypipe/moneypipe/internal/engine"
)

// Config represents the application configuration.
type Config struct {
	Telegram TelegramConfig
	Scraper  ScraperConfig
	Sheets   SheetsConfig
	BigQuery BigQueryConfig
	SQLite   SQLiteConfig

	// IdentityScheme selects the authoritative transaction identity for this
	// run. Fixed at load time.
	IdentityScheme domain.IdentityScheme
}

// TelegramConfig holds the operator-notification channel settings.
type TelegramConfig struct {
	APIKey string
	ChatID int64
}

// ScraperConfig holds the scrape-engine settings and the account list.
type ScraperConfig struct {
	URL          string
	Accounts     []engine.Account
	DaysBack     int
	FutureMonths int
}

// SheetsConfig holds the Google Sheets backend settings.
type SheetsConfig struct {
	SheetID             string
	WorksheetName       string
	ServiceAccountEmail string
	ServiceAccountKey   string
}

// BigQueryConfig holds the BigQuery backend settings.
type BigQueryConfig struct {
	ProjectID string
	Dataset   string
	Table     string
}

// SQLiteConfig holds the local SQLite backend settings.
type SQLiteConfig struct {
	DBPath string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	chatID, err := parseInt64Env("TELEGRAM_CHAT_ID", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}
	daysBack, err := parseIntEnv("DAYS_BACK", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DAYS_BACK: %w", err)
	}
	futureMonths, err := parseIntEnv("FUTURE_MONTHS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid FUTURE_MONTHS: %w", err)
	}

	scheme, err := domain.ParseIdentityScheme(os.Getenv("TRANSACTION_HASH_TYPE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSACTION_HASH_TYPE: %w", err)
	}

	accounts, err := parseAccounts(os.Getenv("ACCOUNTS_JSON"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNTS_JSON: %w", err)
	}

	config := &Config{
		Telegram: TelegramConfig{
			APIKey: os.Getenv("TELEGRAM_API_KEY"),
			ChatID: chatID,
		},
		Scraper: ScraperConfig{
			URL:          os.Getenv("SCRAPER_URL"),
			Accounts:     accounts,
			DaysBack:     daysBack,
			FutureMonths: futureMonths,
		},
		Sheets: SheetsConfig{
			SheetID:             os.Getenv("GOOGLE_SHEET_ID"),
			WorksheetName:       getEnvOrDefault("WORKSHEET_NAME", "_moneypipe"),
			ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			ServiceAccountKey:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"),
		},
		BigQuery: BigQueryConfig{
			ProjectID: os.Getenv("BIGQUERY_PROJECT_ID"),
			Dataset:   getEnvOrDefault("BIGQUERY_DATASET", "finance"),
			Table:     getEnvOrDefault("BIGQUERY_TABLE", "transactions"),
		},
		SQLite: SQLiteConfig{
			DBPath: os.Getenv("SQLITE_DB_PATH"),
		},
		IdentityScheme: scheme,
	}

	return config, nil
}

// Validate checks that the settings a run cannot start without are present.
func (c *Config) Validate() error {
	if c.Scraper.URL == "" {
		return fmt.Errorf("SCRAPER_URL is required")
	}
	if len(c.Scraper.Accounts) == 0 {
		return fmt.Errorf("ACCOUNTS_JSON must configure at least one account")
	}
	return nil
}

// ScrapeStartDate returns the earliest date to scrape, relative to now.
func (c *Config) ScrapeStartDate(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.Scraper.DaysBack)
}

func parseAccounts(raw string) ([]engine.Account, error) {
	if raw == "" {
		return nil, nil
	}
	var accounts []engine.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, err
	}
	for i, a := range accounts {
		if a.Company == "" {
			return nil, fmt.Errorf("account %d: missing company", i)
		}
	}
	return accounts, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
