package storage

import (
	"github.com/rs/zerolog"

	"github.com/moneypipe/moneypipe/internal/domain"
)

// Dedup walks txns in input order, decides which ones to persist, and
// accumulates counts into stats. It returns the transactions to append, in
// their original relative order.
//
// For each transaction:
//   - already persisted under the stable identity (stable scheme only):
//     existing + skipped;
//   - already persisted under the legacy identity: existing + skipped, unless
//     the stable identity is also persisted (then it was already counted).
//     A legacy match while the stable scheme is active is a migration-era
//     duplicate: it is never re-added, and the DeprecationLegacyMatch signal
//     fires once per pass;
//   - pending: skipped only, never persisted;
//   - otherwise: accepted and recorded under the "Added" bucket.
func Dedup(txns []domain.Transaction, existing ExistingSet, scheme domain.IdentityScheme, stats *SaveStats, log zerolog.Logger, deprecate DeprecationFunc) []domain.Transaction {
	var toAdd []domain.Transaction
	legacyMatchSeen := false

	for _, tx := range txns {
		if scheme == domain.SchemeStable && existing.Has(tx.UniqueID) {
			stats.Existing++
			stats.Skipped++
			continue
		}

		if existing.Has(tx.LegacyHash) {
			if scheme == domain.SchemeStable {
				log.Debug().
					Str("hash", tx.LegacyHash).
					Str("uniqueId", tx.UniqueID).
					Msg("Skipping, transaction already stored under its legacy hash")
				if !legacyMatchSeen {
					legacyMatchSeen = true
					if deprecate != nil {
						deprecate(DeprecationLegacyMatch)
					}
				}
			}
			// Avoid double counting when the stable identity was persisted too.
			if !existing.Has(tx.UniqueID) {
				stats.Existing++
				stats.Skipped++
			}
			continue
		}

		if tx.Pending() {
			stats.Skipped++
			continue
		}

		toAdd = append(toAdd, tx)
		stats.Highlight(HighlightAdded, tx)
	}

	stats.Added = len(toAdd)
	return toAdd
}
