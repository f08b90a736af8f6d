// Package bq persists transactions to a BigQuery table.
package bq

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/moneypipe/moneypipe/internal/storage"
)

// Config holds the BigQuery backend settings.
type Config struct {
	ProjectID string
	Dataset   string
	Table     string
}

// Backend streams transaction rows into a BigQuery table, creating the
// table with the shared schema when absent.
type Backend struct {
	cfg Config
	log zerolog.Logger

	client *bigquery.Client
}

// row mirrors the shared persisted-row schema with BigQuery-safe column
// names.
type row struct {
	Date            string  `bigquery:"date"`
	Amount          float64 `bigquery:"amount"`
	Description     string  `bigquery:"description"`
	Memo            string  `bigquery:"memo"`
	Category        string  `bigquery:"category"`
	Account         string  `bigquery:"account"`
	Hash            string  `bigquery:"hash"`
	Comment         string  `bigquery:"comment"`
	ScrapedAt       string  `bigquery:"scraped_at"`
	ScrapedBy       string  `bigquery:"scraped_by"`
	Identifier      string  `bigquery:"identifier"`
	ChargedCurrency string  `bigquery:"charged_currency"`
}

var tableSchema = bigquery.Schema{
	{Name: "date", Type: bigquery.StringFieldType},
	{Name: "amount", Type: bigquery.FloatFieldType},
	{Name: "description", Type: bigquery.StringFieldType},
	{Name: "memo", Type: bigquery.StringFieldType},
	{Name: "category", Type: bigquery.StringFieldType},
	{Name: "account", Type: bigquery.StringFieldType},
	{Name: "hash", Type: bigquery.StringFieldType},
	{Name: "comment", Type: bigquery.StringFieldType},
	{Name: "scraped_at", Type: bigquery.StringFieldType},
	{Name: "scraped_by", Type: bigquery.StringFieldType},
	{Name: "identifier", Type: bigquery.StringFieldType},
	{Name: "charged_currency", Type: bigquery.StringFieldType},
}

// New creates a BigQuery backend. The client is established in Init.
func New(cfg Config, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, log: log}
}

// Label implements storage.Backend.
func (b *Backend) Label() string { return "BigQuery" }

// Target implements storage.Backend.
func (b *Backend) Target() string {
	return fmt.Sprintf("%s.%s", b.cfg.Dataset, b.cfg.Table)
}

// CanSave reports whether a project and dataset are configured. Credentials
// come from the application-default chain.
func (b *Backend) CanSave() bool {
	return b.cfg.ProjectID != "" && b.cfg.Dataset != "" && b.cfg.Table != ""
}

// Init creates the client and the table when it does not exist yet. Safe to
// call again.
func (b *Backend) Init(ctx context.Context) error {
	if b.client == nil {
		client, err := bigquery.NewClient(ctx, b.cfg.ProjectID)
		if err != nil {
			return fmt.Errorf("bigquery client: %w", err)
		}
		b.client = client
	}

	table := b.client.Dataset(b.cfg.Dataset).Table(b.cfg.Table)
	if _, err := table.Metadata(ctx); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("checking table: %w", err)
		}
		b.log.Info().Str("table", b.Target()).Msg("Creating new table")
		if err := table.Create(ctx, &bigquery.TableMetadata{Schema: tableSchema}); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	return nil
}

// LoadIdentities reads every previously-persisted hash value.
func (b *Backend) LoadIdentities(ctx context.Context) (storage.ExistingSet, error) {
	q := b.client.Query(fmt.Sprintf(
		"SELECT hash FROM `%s.%s.%s` WHERE hash IS NOT NULL",
		b.cfg.ProjectID, b.cfg.Dataset, b.cfg.Table,
	))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying hashes: %w", err)
	}

	set := storage.ExistingSet{}
	for {
		var r struct {
			Hash string `bigquery:"hash"`
		}
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating hashes: %w", err)
		}
		set.Add(r.Hash)
	}
	return set, nil
}

// Append streams all rows through the table inserter in one call.
func (b *Backend) Append(ctx context.Context, rows []storage.Row) error {
	bqRows := make([]*row, len(rows))
	for i, r := range rows {
		bqRows[i] = &row{
			Date:            r.Date,
			Amount:          r.Amount,
			Description:     r.Description,
			Memo:            r.Memo,
			Category:        r.Category,
			Account:         r.Account,
			Hash:            r.Hash,
			Comment:         r.Comment,
			ScrapedAt:       r.ScrapedAt,
			ScrapedBy:       r.ScrapedBy,
			Identifier:      r.Identifier,
			ChargedCurrency: r.ChargedCurrency,
		}
	}

	inserter := b.client.Dataset(b.cfg.Dataset).Table(b.cfg.Table).Inserter()
	if err := inserter.Put(ctx, bqRows); err != nil {
		return fmt.Errorf("inserting %d rows: %w", len(rows), err)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
