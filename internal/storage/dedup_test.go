package storage

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/moneypipe/moneypipe/internal/domain"
)

func tx(account, legacyHash, uniqueID string, status domain.TransactionStatus) domain.Transaction {
	return domain.Transaction{
		AccountID:        account,
		Date:             "2026-08-15",
		ChargedAmount:    -50,
		OriginalCurrency: "ILS",
		Description:      "desc " + legacyHash,
		Status:           status,
		LegacyHash:       legacyHash,
		UniqueID:         uniqueID,
	}
}

func TestDedupThreeNewTwoExisting(t *testing.T) {
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusCompleted),
		tx("a", "h2", "u2", domain.StatusCompleted),
		tx("a", "h3", "u3", domain.StatusCompleted),
		tx("a", "h4", "u4", domain.StatusCompleted),
		tx("a", "h5", "u5", domain.StatusCompleted),
	}
	existing := NewExistingSet([]string{"h2", "h4"})

	stats := NewSaveStats("test", "table")
	toAdd := Dedup(txns, existing, domain.SchemeLegacy, stats, zerolog.Nop(), nil)

	if stats.Added != 3 || stats.Existing != 2 || stats.Skipped != 2 {
		t.Errorf("stats = {added: %d, existing: %d, skipped: %d}, want {3, 2, 2}",
			stats.Added, stats.Existing, stats.Skipped)
	}
	if len(toAdd) != 3 {
		t.Fatalf("got %d transactions to add, want 3", len(toAdd))
	}
	// Original relative order preserved.
	for i, want := range []string{"h1", "h3", "h5"} {
		if toAdd[i].LegacyHash != want {
			t.Errorf("toAdd[%d] = %s, want %s", i, toAdd[i].LegacyHash, want)
		}
	}
	if got := len(stats.Highlighted[HighlightAdded]); got != 3 {
		t.Errorf("Added bucket has %d transactions, want 3", got)
	}
}

func TestDedupPendingNeverPersisted(t *testing.T) {
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusPending),
		tx("a", "h2", "u2", domain.StatusCompleted),
	}

	stats := NewSaveStats("test", "table")
	toAdd := Dedup(txns, NewExistingSet(nil), domain.SchemeLegacy, stats, zerolog.Nop(), nil)

	if len(toAdd) != 1 || toAdd[0].LegacyHash != "h2" {
		t.Fatalf("pending transaction leaked into toAdd: %+v", toAdd)
	}
	// Pending is skipped but not existing: it was never seen before.
	if stats.Skipped != 1 || stats.Existing != 0 || stats.Added != 1 {
		t.Errorf("stats = {added: %d, existing: %d, skipped: %d}, want {1, 0, 1}",
			stats.Added, stats.Existing, stats.Skipped)
	}
}

func TestDedupIdempotence(t *testing.T) {
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusCompleted),
		tx("a", "h2", "u2", domain.StatusCompleted),
		tx("a", "h3", "u3", domain.StatusPending),
	}

	// First run against an empty store.
	existing := NewExistingSet(nil)
	first := NewSaveStats("test", "table")
	added := Dedup(txns, existing, domain.SchemeLegacy, first, zerolog.Nop(), nil)
	if first.Added != 2 {
		t.Fatalf("first run added = %d, want 2", first.Added)
	}

	// Second run against a store now holding the first run's hashes.
	for _, tx := range added {
		existing.Add(tx.LegacyHash)
	}
	second := NewSaveStats("test", "table")
	Dedup(txns, existing, domain.SchemeLegacy, second, zerolog.Nop(), nil)

	if second.Added != 0 {
		t.Errorf("second run added = %d, want 0", second.Added)
	}
	if second.Existing != 2 {
		t.Errorf("second run existing = %d, want 2 (batch minus pending)", second.Existing)
	}
}

func TestDedupStableScheme(t *testing.T) {
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusCompleted),
		tx("a", "h2", "u2", domain.StatusCompleted),
	}
	existing := NewExistingSet([]string{"u1"})

	stats := NewSaveStats("test", "table")
	toAdd := Dedup(txns, existing, domain.SchemeStable, stats, zerolog.Nop(), nil)

	if len(toAdd) != 1 || toAdd[0].UniqueID != "u2" {
		t.Fatalf("toAdd = %+v, want only u2", toAdd)
	}
	if stats.Existing != 1 || stats.Skipped != 1 || stats.Added != 1 {
		t.Errorf("stats = {added: %d, existing: %d, skipped: %d}, want {1, 1, 1}",
			stats.Added, stats.Existing, stats.Skipped)
	}
}

func TestDedupMigrationOverlap(t *testing.T) {
	// Store populated under the legacy scheme; run now uses the stable
	// scheme. The legacy hashes pre-exist, the unique IDs are novel.
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusCompleted),
		tx("a", "h2", "u2", domain.StatusCompleted),
		tx("a", "h3", "u3", domain.StatusCompleted),
	}
	existing := NewExistingSet([]string{"h1", "h2"})

	var deprecations []string
	stats := NewSaveStats("test", "table")
	toAdd := Dedup(txns, existing, domain.SchemeStable, stats, zerolog.Nop(), func(key string) {
		deprecations = append(deprecations, key)
	})

	// Migration-era duplicates must not be re-added.
	if len(toAdd) != 1 || toAdd[0].UniqueID != "u3" {
		t.Fatalf("toAdd = %+v, want only u3", toAdd)
	}
	if stats.Existing != 2 || stats.Skipped != 2 || stats.Added != 1 {
		t.Errorf("stats = {added: %d, existing: %d, skipped: %d}, want {1, 2, 2}",
			stats.Added, stats.Existing, stats.Skipped)
	}
	// The legacy-match signal fires once per pass, not per transaction.
	if len(deprecations) != 1 || deprecations[0] != DeprecationLegacyMatch {
		t.Errorf("deprecations = %v, want one %s", deprecations, DeprecationLegacyMatch)
	}
}

func TestDedupLegacyAndStableBothPersisted(t *testing.T) {
	// Both identities already in the store: skip without counting twice.
	txns := []domain.Transaction{tx("a", "h1", "u1", domain.StatusCompleted)}
	existing := NewExistingSet([]string{"h1", "u1"})

	stats := NewSaveStats("test", "table")
	toAdd := Dedup(txns, existing, domain.SchemeStable, stats, zerolog.Nop(), nil)

	if len(toAdd) != 0 {
		t.Fatalf("toAdd = %+v, want empty", toAdd)
	}
	if stats.Existing != 1 || stats.Skipped != 1 {
		t.Errorf("stats = {existing: %d, skipped: %d}, want {1, 1}", stats.Existing, stats.Skipped)
	}
}

func TestDedupAccounting(t *testing.T) {
	// added + skipped + existing >= len(txns), equality without overlap.
	txns := []domain.Transaction{
		tx("a", "h1", "u1", domain.StatusCompleted),
		tx("a", "h2", "u2", domain.StatusPending),
		tx("a", "h3", "u3", domain.StatusCompleted),
	}
	existing := NewExistingSet([]string{"h3"})

	stats := NewSaveStats("test", "table")
	Dedup(txns, existing, domain.SchemeLegacy, stats, zerolog.Nop(), nil)

	if got := stats.Added + stats.Skipped + stats.Existing; got < len(txns) {
		t.Errorf("added+skipped+existing = %d, want >= %d", got, len(txns))
	}
	if stats.Added != 1 || stats.Skipped != 2 || stats.Existing != 1 {
		t.Errorf("stats = {added: %d, existing: %d, skipped: %d}, want {1, 1, 2}",
			stats.Added, stats.Existing, stats.Skipped)
	}
}
