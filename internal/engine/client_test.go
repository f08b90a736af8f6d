package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientScrape(t *testing.T) {
	var gotReq scrapeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scrape" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"transactions": [
				{"date": "2026-08-01", "chargedAmount": -42.5, "description": "coffee", "status": "completed", "hash": "h1", "uniqueId": "u1"},
				{"accountId": "preset", "date": "2026-08-02", "chargedAmount": -10, "description": "bus", "status": "completed", "hash": "h2", "uniqueId": "u2"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, FutureMonths: 2})
	account := Account{
		ID:          "1234",
		Company:     "hapoalim",
		Credentials: map[string]string{"userCode": "u", "password": "p"},
	}
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	txns, err := client.Scrape(context.Background(), account, start)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if gotReq.Company != "hapoalim" {
		t.Errorf("request company = %q, want hapoalim", gotReq.Company)
	}
	if gotReq.FutureMonths != 2 {
		t.Errorf("request futureMonths = %d, want 2", gotReq.FutureMonths)
	}
	if gotReq.StartDate != start.Format(time.RFC3339) {
		t.Errorf("request startDate = %q", gotReq.StartDate)
	}

	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if txns[0].AccountID != "1234" {
		t.Errorf("missing account ID not backfilled: %q", txns[0].AccountID)
	}
	if txns[1].AccountID != "preset" {
		t.Errorf("preset account ID overwritten: %q", txns[1].AccountID)
	}
}

func TestClientScrapeEngineFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "errorType": "INVALID_PASSWORD", "errorMessage": "login failed"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.Scrape(context.Background(), Account{ID: "1234"}, time.Now())
	if err == nil {
		t.Fatal("expected error for unsuccessful scrape")
	}
	if !strings.Contains(err.Error(), "INVALID_PASSWORD") {
		t.Errorf("error should carry engine error type, got: %v", err)
	}
}

func TestClientScrapeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.Scrape(context.Background(), Account{ID: "1234"}, time.Now())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry status code, got: %v", err)
	}
}
