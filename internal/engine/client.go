package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moneypipe/moneypipe/internal/domain"
)

// ClientConfig configures the HTTP client for the scraper service.
type ClientConfig struct {
	BaseURL string

	// FutureMonths is how many months ahead of today the engine should
	// include (installment charges land in future months).
	FutureMonths int

	// Timeout for a single scrape call. Zero means no client-side timeout;
	// a hung scrape then blocks its branch until the service gives up.
	Timeout time.Duration
}

// Client calls a scraper service over HTTP. The service wraps the actual
// bank-protocol automation, which is out of scope here.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	futureMonths int
}

// NewClient creates a scraper service client.
func NewClient(config ClientConfig) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: config.Timeout},
		baseURL:      config.BaseURL,
		futureMonths: config.FutureMonths,
	}
}

type scrapeRequest struct {
	Company      string            `json:"company"`
	Credentials  map[string]string `json:"credentials"`
	StartDate    string            `json:"startDate"`
	FutureMonths int               `json:"futureMonths"`
}

type scrapeResponse struct {
	Success      bool                 `json:"success"`
	ErrorType    string               `json:"errorType,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Scrape asks the service to log into the account and return every
// transaction from startDate onwards. Transactions come back tagged with the
// account ID they were scraped from.
func (c *Client) Scrape(ctx context.Context, account Account, startDate time.Time) ([]domain.Transaction, error) {
	reqBody, err := json.Marshal(scrapeRequest{
		Company:      account.Company,
		Credentials:  account.Credentials,
		StartDate:    startDate.Format(time.RFC3339),
		FutureMonths: c.futureMonths,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape %s: encoding request: %w", account.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("scrape %s: creating request: %w", account.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", account.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scrape %s: engine returned %d: %s", account.ID, resp.StatusCode, bytes.TrimSpace(body))
	}

	var parsed scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("scrape %s: decoding response: %w", account.ID, err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("scrape %s: %s %s", account.ID, parsed.ErrorType, parsed.ErrorMessage)
	}

	txns := parsed.Transactions
	for i := range txns {
		if txns[i].AccountID == "" {
			txns[i].AccountID = account.ID
		}
	}
	return txns, nil
}
