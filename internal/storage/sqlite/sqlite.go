// Package sqlite persists transactions to a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/moneypipe/moneypipe/internal/storage"
)

const tableName = "transactions"

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	date TEXT NOT NULL,
	amount REAL NOT NULL,
	description TEXT NOT NULL,
	memo TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	account TEXT NOT NULL,
	hash TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	scraped_at TEXT NOT NULL,
	scraped_by TEXT NOT NULL,
	identifier TEXT NOT NULL DEFAULT '',
	charged_currency TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_hash ON transactions(hash);
`

// Config holds the local SQLite backend settings.
type Config struct {
	DBPath string
}

// Backend appends transaction rows to a local SQLite table, creating the
// file and schema when absent.
type Backend struct {
	cfg Config
	log zerolog.Logger

	db *sql.DB
}

// New creates a SQLite backend. The connection is established in Init.
func New(cfg Config, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, log: log}
}

// Label implements storage.Backend.
func (b *Backend) Label() string { return "SQLite" }

// Target implements storage.Backend.
func (b *Backend) Target() string { return tableName }

// CanSave reports whether a database path is configured.
func (b *Backend) CanSave() bool { return b.cfg.DBPath != "" }

// Init opens the database in WAL mode and initializes the schema. A second
// call verifies the existing connection.
func (b *Backend) Init(ctx context.Context) error {
	if b.db != nil {
		return b.db.PingContext(ctx)
	}

	if err := os.MkdirAll(filepath.Dir(b.cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", b.cfg.DBPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	return nil
}

// Close releases the database connection.
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// LoadIdentities reads every previously-persisted hash value.
func (b *Backend) LoadIdentities(ctx context.Context) (storage.ExistingSet, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT hash FROM transactions")
	if err != nil {
		return nil, fmt.Errorf("querying hashes: %w", err)
	}
	defer rows.Close()

	set := storage.ExistingSet{}
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("scanning hash: %w", err)
		}
		set.Add(hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hashes: %w", err)
	}
	return set, nil
}

// Append inserts all rows in a single transaction.
func (b *Backend) Append(ctx context.Context, rows []storage.Row) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			date, amount, description, memo, category, account,
			hash, comment, scraped_at, scraped_by, identifier, charged_currency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.Date, r.Amount, r.Description, r.Memo, r.Category, r.Account,
			r.Hash, r.Comment, r.ScrapedAt, r.ScrapedBy, r.Identifier, r.ChargedCurrency,
		)
		if err != nil {
			return fmt.Errorf("inserting row %s: %w", r.Hash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %d rows: %w", len(rows), err)
	}
	return nil
}
