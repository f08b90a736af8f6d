// Package runner is the top-level control flow of a scrape run: announce,
// scrape and initialize storage concurrently, save, summarize. Every failure
// ends up at the operator-notification channel; nothing crashes the process.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moneypipe/moneypipe/internal/domain"
	"github.com/moneypipe/moneypipe/internal/engine"
	"github.com/moneypipe/moneypipe/internal/notifier"
	"github.com/moneypipe/moneypipe/internal/scraper"
	"github.com/moneypipe/moneypipe/internal/storage"
)

// Params wires a Runner.
type Params struct {
	Accounts  []engine.Account
	StartDate time.Time
	Engine    engine.Scraper
	Storages  []storage.TransactionStorage
	Notifier  notifier.Notifier
	Log       zerolog.Logger
}

// Runner coordinates one run end to end.
type Runner struct {
	accounts     []engine.Account
	startDate    time.Time
	orchestrator *scraper.Orchestrator
	storages     []storage.TransactionStorage
	notifier     notifier.Notifier
	log          zerolog.Logger
}

// New creates a Runner.
func New(p Params) *Runner {
	return &Runner{
		accounts:     p.Accounts,
		startDate:    p.StartDate,
		orchestrator: scraper.New(p.Engine, p.Log),
		storages:     p.Storages,
		notifier:     p.Notifier,
		log:          p.Log,
	}
}

// Run executes one scrape run. All failures, including panics out of any
// phase, are reported through the notifier and swallowed so the process can
// terminate deterministically with exit code 0.
func (r *Runner) Run(ctx context.Context) {
	log := r.log.With().Str("run_id", uuid.NewString()).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Run panicked, sending error")
			// The report attempt's own failure is swallowed so the run
			// still terminates.
			_ = r.notifier.SendError(ctx, fmt.Errorf("caught panic: %v", rec))
		}
		log.Info().Msg("Scraping ended")
		notifier.LogToPublic("Scraping ended")
	}()

	notifier.LogToPublic("Scraping started")
	log.Info().Msg("Scraping started")

	handle, err := r.notifier.Send(ctx, "Starting...")
	if err != nil {
		log.Error().Err(err).Msg("Failed to announce run")
		_ = r.notifier.SendError(ctx, err)
		return
	}

	capable := r.capableStorages()
	if len(capable) == 0 {
		log.Info().Msg("No storages found, aborting")
		if err := r.notifier.EditMessage(ctx, handle, "No storages found, aborting"); err != nil {
			log.Warn().Err(err).Msg("Failed to edit announcement")
		}
		return
	}

	if err := r.scrapeAndSave(ctx, log, handle, capable); err != nil {
		log.Error().Err(err).Msg("Run failed, sending error")
		_ = r.notifier.SendError(ctx, err)
	}
}

func (r *Runner) capableStorages() []storage.TransactionStorage {
	var capable []storage.TransactionStorage
	for _, s := range r.storages {
		if s.CanSave() {
			capable = append(capable, s)
		} else {
			r.log.Info().Str("storage", s.Name()).Msg("Storage cannot save, skipping")
		}
	}
	return capable
}

func (r *Runner) scrapeAndSave(ctx context.Context, log zerolog.Logger, handle notifier.MessageHandle, capable []storage.TransactionStorage) error {
	var results []scraper.AccountResult

	// Scraping and storage initialization run concurrently. Account-level
	// scrape failures never surface here; a storage-initialization failure
	// fails the whole run (nothing could be saved).
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = r.orchestrator.ScrapeAccounts(gctx, r.accounts, r.startDate, func(lines []string, totalElapsed *time.Duration) error {
			text := strings.Join(lines, "\n")
			if totalElapsed != nil {
				text += fmt.Sprintf("\n\nTotal time: %.1f seconds", totalElapsed.Seconds())
			}
			return r.notifier.EditMessage(ctx, handle, text)
		})
		return err
	})
	g.Go(func() error {
		for _, s := range capable {
			init, ok := s.(storage.Initializer)
			if !ok {
				continue
			}
			if err := init.Init(gctx); err != nil {
				return fmt.Errorf("initializing %s: %w", s.Name(), err)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	var txns []domain.Transaction
	for _, res := range results {
		txns = append(txns, res.Transactions...)
	}
	log.Info().Int("transactions", len(txns)).Msg("Scraping done, saving")

	// A mid-save failure aborts the remaining sequence; rows already
	// appended by earlier adapters stay persisted.
	var allStats []*storage.SaveStats
	for _, s := range capable {
		stats, err := s.SaveTransactions(ctx, txns, r.storageProgress(ctx, s.Name()))
		if err != nil {
			return err
		}
		allStats = append(allStats, stats)
	}

	for _, message := range summaryMessages(results, allStats) {
		if _, err := r.notifier.Send(ctx, message); err != nil {
			return fmt.Errorf("sending summary: %w", err)
		}
	}
	return nil
}

// storageProgress returns a ProgressFunc that posts one message per backend
// and edits it in place as the save advances.
func (r *Runner) storageProgress(ctx context.Context, name string) storage.ProgressFunc {
	var handle notifier.MessageHandle
	return func(status string) error {
		text := fmt.Sprintf("%s: %s", name, status)
		if handle == 0 {
			h, err := r.notifier.Send(ctx, text)
			if err != nil {
				return err
			}
			handle = h
			return nil
		}
		return r.notifier.EditMessage(ctx, handle, text)
	}
}
