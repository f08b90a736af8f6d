package main

import (
	"context"
	"os"
	"time"

	"github.com/moneypipe/moneypipe/internal/config"
	"github.com/moneypipe/moneypipe/internal/engine"
	"github.com/moneypipe/moneypipe/internal/logger"
	"github.com/moneypipe/moneypipe/internal/notifier"
	"github.com/moneypipe/moneypipe/internal/runner"
	"github.com/moneypipe/moneypipe/internal/storage"
	"github.com/moneypipe/moneypipe/internal/storage/bq"
	"github.com/moneypipe/moneypipe/internal/storage/sheets"
	"github.com/moneypipe/moneypipe/internal/storage/sqlite"
)

const systemName = "moneypipe"

func main() {
	log := logger.New()

	// Anything escaping the runner's own supervision still terminates with a
	// report in the log instead of a crash.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Unhandled panic")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return
	}

	var sink notifier.Notifier
	if cfg.Telegram.APIKey != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notifier.NewTelegram(cfg.Telegram.APIKey, cfg.Telegram.ChatID, logger.WithComponent(log, "notifier"))
		if err != nil {
			log.Error().Err(err).Msg("Failed to create Telegram notifier, falling back to log")
			sink = notifier.NewNop(log)
		} else {
			sink = tg
		}
	} else {
		log.Info().Msg("Telegram not configured, notifications go to the log")
		sink = notifier.NewNop(log)
	}

	now := time.Now()
	ctx := logger.WithContext(context.Background(), log)
	deprecate := func(key string) { sink.SendDeprecation(ctx, key) }
	scrapedAt := now.Format("2006-01-02")

	storages := []storage.TransactionStorage{
		storage.NewSaver(
			sheets.New(sheets.Config{
				SpreadsheetID:       cfg.Sheets.SheetID,
				WorksheetName:       cfg.Sheets.WorksheetName,
				ServiceAccountEmail: cfg.Sheets.ServiceAccountEmail,
				ServiceAccountKey:   cfg.Sheets.ServiceAccountKey,
			}, logger.WithComponent(log, "sheets")),
			cfg.IdentityScheme, scrapedAt, systemName, deprecate, log),
		storage.NewSaver(
			bq.New(bq.Config{
				ProjectID: cfg.BigQuery.ProjectID,
				Dataset:   cfg.BigQuery.Dataset,
				Table:     cfg.BigQuery.Table,
			}, logger.WithComponent(log, "bigquery")),
			cfg.IdentityScheme, scrapedAt, systemName, deprecate, log),
		storage.NewSaver(
			sqlite.New(sqlite.Config{
				DBPath: cfg.SQLite.DBPath,
			}, logger.WithComponent(log, "sqlite")),
			cfg.IdentityScheme, scrapedAt, systemName, deprecate, log),
	}

	run := runner.New(runner.Params{
		Accounts:  cfg.Scraper.Accounts,
		StartDate: cfg.ScrapeStartDate(now),
		Engine: engine.NewClient(engine.ClientConfig{
			BaseURL:      cfg.Scraper.URL,
			FutureMonths: cfg.Scraper.FutureMonths,
		}),
		Storages: storages,
		Notifier: sink,
		Log:      log,
	})

	run.Run(ctx)

	// Scheduled batch job: failures were reported through the notifier and
	// are never signaled via the exit status.
	os.Exit(0)
}
