// Package storage defines the transaction-storage contract and the shared
// deduplicate-and-append flow that every concrete backend runs through.
package storage

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moneypipe/moneypipe/internal/domain"
)

// ProgressFunc receives human-readable status updates ("Initializing",
// "Loading hashes", "Saving") during a save operation.
type ProgressFunc func(status string) error

// DeprecationFunc receives one-shot deprecation signals. Implementations are
// expected to forward each key to the operator at most once per process.
type DeprecationFunc func(key string)

// Deprecation keys emitted by the save flow.
const (
	// DeprecationHashFieldChange is emitted when rows are appended under the
	// legacy identity scheme; backends should move to the stable scheme.
	DeprecationHashFieldChange = "hash-field-change"
	// DeprecationLegacyMatch is emitted when a transaction is deduplicated by
	// its legacy hash while the stable scheme is active (migration overlap).
	DeprecationLegacyMatch = "legacy-hash-dedup"
)

// TransactionStorage is a durable store capable of receiving a run's
// transactions. Adapters that cannot save are skipped entirely.
type TransactionStorage interface {
	// Name returns the operator-facing backend label.
	Name() string

	// CanSave reports whether backend prerequisites (credentials, paths) are
	// present. Checked before SaveTransactions is invoked.
	CanSave() bool

	// SaveTransactions deduplicates txns against the backend, appends the new
	// non-pending ones, and returns per-run statistics. Any I/O failure
	// propagates to the caller; no retries are performed.
	SaveTransactions(ctx context.Context, txns []domain.Transaction, onProgress ProgressFunc) (*SaveStats, error)
}

// Initializer is implemented by storages whose backend connection can be
// established ahead of the save phase, concurrently with scraping.
type Initializer interface {
	Init(ctx context.Context) error
}

// ExistingSet is a backend-scoped set of previously-persisted identity
// values. Loaded once per save, read-only during the dedup pass.
type ExistingSet map[string]struct{}

// NewExistingSet builds an ExistingSet from persisted hash-column values.
func NewExistingSet(values []string) ExistingSet {
	set := make(ExistingSet, len(values))
	for _, v := range values {
		set.Add(v)
	}
	return set
}

// Add inserts an identity value. Empty values are ignored.
func (s ExistingSet) Add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

// Has reports whether the identity value was previously persisted.
func (s ExistingSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// runPhase runs op concurrently with a progress notification and returns once
// both have settled. A progress failure is logged and otherwise ignored; the
// op's error is the phase's error.
func runPhase(log zerolog.Logger, onProgress ProgressFunc, status string, op func() error) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if onProgress == nil {
			return
		}
		if err := onProgress(status); err != nil {
			log.Warn().Err(err).Str("status", status).Msg("Progress report failed")
		}
	}()

	err := op()
	wg.Wait()
	return err
}
