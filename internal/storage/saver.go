package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moneypipe/moneypipe/internal/domain"
)

// Backend is the minimal surface a concrete store implements. Saver drives
// the shared save flow on top of it.
type Backend interface {
	// Label returns the operator-facing backend name, e.g. "Google Sheets".
	Label() string

	// Target returns the table or worksheet label rows are appended to.
	Target() string

	// CanSave reports whether backend prerequisites are present.
	CanSave() bool

	// Init establishes or verifies the connection and creates the target
	// table with the shared header schema when absent.
	Init(ctx context.Context) error

	// LoadIdentities returns every previously-persisted hash-column value.
	LoadIdentities(ctx context.Context) (ExistingSet, error)

	// Append bulk-appends rows. Called at most once per save, only when rows
	// exist. Appends only; persisted rows are never edited or deleted.
	Append(ctx context.Context, rows []Row) error
}

// Saver implements TransactionStorage over any Backend: initialize, load the
// existing identity set, dedup, append, report. Each phase runs its I/O
// concurrently with a progress notification and waits for both.
type Saver struct {
	backend   Backend
	scheme    domain.IdentityScheme
	scrapedAt string
	scrapedBy string
	deprecate DeprecationFunc
	log       zerolog.Logger
}

// NewSaver wires a backend into the shared save flow. scrapedAt and
// scrapedBy stamp every appended row for this run.
func NewSaver(backend Backend, scheme domain.IdentityScheme, scrapedAt, scrapedBy string, deprecate DeprecationFunc, log zerolog.Logger) *Saver {
	return &Saver{
		backend:   backend,
		scheme:    scheme,
		scrapedAt: scrapedAt,
		scrapedBy: scrapedBy,
		deprecate: deprecate,
		log:       log.With().Str("backend", backend.Label()).Logger(),
	}
}

// Name returns the backend label.
func (s *Saver) Name() string { return s.backend.Label() }

// Init prepares the underlying backend ahead of the save phase. Backends
// keep Init idempotent, so the save's own initializing phase stays a cheap
// verification.
func (s *Saver) Init(ctx context.Context) error { return s.backend.Init(ctx) }

// CanSave reports whether the underlying backend can currently save.
func (s *Saver) CanSave() bool { return s.backend.CanSave() }

// SaveTransactions runs the dedup-and-append flow against the backend.
func (s *Saver) SaveTransactions(ctx context.Context, txns []domain.Transaction, onProgress ProgressFunc) (*SaveStats, error) {
	if err := runPhase(s.log, onProgress, "Initializing", func() error {
		return s.backend.Init(ctx)
	}); err != nil {
		return nil, fmt.Errorf("%s: initializing: %w", s.backend.Label(), err)
	}

	var existing ExistingSet
	if err := runPhase(s.log, onProgress, "Loading hashes", func() error {
		var err error
		existing, err = s.backend.LoadIdentities(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: loading identities: %w", s.backend.Label(), err)
	}
	s.log.Info().Int("count", len(existing)).Msg("Identities loaded")

	stats := NewSaveStats(s.backend.Label(), s.backend.Target())
	toAdd := Dedup(txns, existing, s.scheme, stats, s.log, s.deprecate)

	if len(toAdd) > 0 {
		rows := make([]Row, len(toAdd))
		for i, tx := range toAdd {
			rows[i] = NewRow(tx, s.scheme, s.scrapedAt, s.scrapedBy)
		}

		if err := runPhase(s.log, onProgress, "Saving", func() error {
			return s.backend.Append(ctx, rows)
		}); err != nil {
			return nil, fmt.Errorf("%s: appending rows: %w", s.backend.Label(), err)
		}

		if s.scheme != domain.SchemeStable && s.deprecate != nil {
			s.deprecate(DeprecationHashFieldChange)
		}
	}

	s.log.Info().
		Int("added", stats.Added).
		Int("existing", stats.Existing).
		Int("skipped", stats.Skipped).
		Msg("Save finished")
	return stats, nil
}
