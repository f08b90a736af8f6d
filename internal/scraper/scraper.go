// Package scraper drives the configured accounts through the scrape engine
// concurrently and aggregates per-account outcomes.
package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moneypipe/moneypipe/internal/domain"
	"github.com/moneypipe/moneypipe/internal/engine"
)

// AccountResult is the terminal outcome of one account's scrape. Err is set
// and Transactions empty when the scrape failed.
type AccountResult struct {
	AccountID    string
	Transactions []domain.Transaction
	Err          error
}

// ProgressFunc receives a per-account status snapshot after every account
// settles. totalElapsed is nil on intermediate calls and set on the final
// one. Later calls always reflect at least as many completed accounts as
// earlier ones.
type ProgressFunc func(lines []string, totalElapsed *time.Duration) error

// Orchestrator fans a run's accounts out across the engine.
type Orchestrator struct {
	engine engine.Scraper
	log    zerolog.Logger
}

// New creates an Orchestrator.
func New(eng engine.Scraper, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{engine: eng, log: log}
}

// ScrapeAccounts scrapes every account concurrently and returns one result
// per account, ordered by input. Account-level failures are recorded in
// their result and never abort sibling scrapes; the returned error is
// reserved for failures unrelated to any single account.
func (o *Orchestrator) ScrapeAccounts(ctx context.Context, accounts []engine.Account, startDate time.Time, onProgress ProgressFunc) ([]AccountResult, error) {
	start := time.Now()
	results := make([]AccountResult, len(accounts))
	status := make([]string, len(accounts))
	for i, account := range accounts {
		status[i] = fmt.Sprintf("⏳ %s: scraping", account.ID)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			txns, err := o.engine.Scrape(gctx, account, startDate)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.log.Error().Err(err).Str("account", account.ID).Msg("Account scrape failed")
				results[i] = AccountResult{AccountID: account.ID, Err: err}
				status[i] = fmt.Sprintf("❌ %s: %s", account.ID, err)
			} else {
				o.log.Info().Str("account", account.ID).Int("transactions", len(txns)).Msg("Account scraped")
				results[i] = AccountResult{AccountID: account.ID, Transactions: txns}
				status[i] = fmt.Sprintf("✔️ %s: %d transactions", account.ID, len(txns))
			}

			// Snapshot and report while holding the lock so updates stay
			// serialized and monotonic.
			o.report(onProgress, append([]string(nil), status...), nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	o.report(onProgress, append([]string(nil), status...), &elapsed)
	return results, nil
}

func (o *Orchestrator) report(onProgress ProgressFunc, lines []string, totalElapsed *time.Duration) {
	if onProgress == nil {
		return
	}
	if err := onProgress(lines, totalElapsed); err != nil {
		o.log.Warn().Err(err).Msg("Progress report failed")
	}
}
