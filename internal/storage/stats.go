package storage

import "github.com/moneypipe/moneypipe/internal/domain"

// HighlightAdded is the bucket name for newly-persisted transactions.
const HighlightAdded = "Added"

// SaveStats is the per-backend, per-run aggregate reported to the operator.
// Created fresh each run, discarded after the summary is sent.
type SaveStats struct {
	// Backend is the operator-facing backend label, e.g. "Google Sheets".
	Backend string

	// Target is the table or worksheet the rows were written to.
	Target string

	// Existing counts transactions already persisted under either identity.
	Existing int

	// Skipped counts transactions not appended this run, whether existing or
	// pending.
	Skipped int

	// Added counts newly-appended rows.
	Added int

	// Highlighted holds named transaction buckets used for operator-facing
	// summaries.
	Highlighted map[string][]domain.Transaction
}

// NewSaveStats creates an empty SaveStats for one backend and target.
func NewSaveStats(backend, target string) *SaveStats {
	return &SaveStats{
		Backend: backend,
		Target:  target,
		Highlighted: map[string][]domain.Transaction{
			HighlightAdded: nil,
		},
	}
}

// Highlight records tx under the named bucket.
func (s *SaveStats) Highlight(bucket string, tx domain.Transaction) {
	s.Highlighted[bucket] = append(s.Highlighted[bucket], tx)
}
