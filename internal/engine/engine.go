// Package engine is the boundary to the external account-scraping service.
// The core treats it as an opaque producer: given an account and a start
// date it either returns raw transactions or fails.
package engine

import (
	"context"
	"time"

	"github.com/moneypipe/moneypipe/internal/domain"
)

// Account describes one configured bank or credit-card account.
type Account struct {
	// ID is the operator-facing label, usually the account or card number.
	ID string `json:"id"`

	// Company is the institution identifier understood by the scraper engine.
	Company string `json:"company"`

	// Credentials holds the engine-specific login fields (username, password,
	// card6Digits, ...). Passed through verbatim, never logged.
	Credentials map[string]string `json:"credentials"`
}

// Scraper produces the raw transactions of a single account.
type Scraper interface {
	Scrape(ctx context.Context, account Account, startDate time.Time) ([]domain.Transaction, error)
}
