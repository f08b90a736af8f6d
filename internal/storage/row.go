package storage

import (
	"time"

	"github.com/moneypipe/moneypipe/internal/currency"
	"github.com/moneypipe/moneypipe/internal/domain"
)

// Headers is the fixed persisted-row column order shared by every backend.
var Headers = []string{
	"date",
	"amount",
	"description",
	"memo",
	"category",
	"account",
	"hash",
	"comment",
	"scraped at",
	"scraped by",
	"identifier",
	"chargedCurrency",
}

// Row is the durable representation of one accepted transaction. Rows are
// appended once and never mutated afterwards.
type Row struct {
	Date            string
	Amount          float64
	Description     string
	Memo            string
	Category        string
	Account         string
	Hash            string
	Comment         string
	ScrapedAt       string
	ScrapedBy       string
	Identifier      string
	ChargedCurrency string
}

// NewRow maps an accepted transaction to its persisted representation. The
// hash column carries the authoritative identity under the given scheme.
func NewRow(tx domain.Transaction, scheme domain.IdentityScheme, scrapedAt, scrapedBy string) Row {
	charged := currency.Normalize(tx.ChargedCurrency)
	if charged == "" {
		// Not pending at this point, so the original currency is what the
		// account was charged in.
		charged = currency.Normalize(tx.OriginalCurrency)
	}

	return Row{
		Date:            formatDate(tx.Date),
		Amount:          tx.ChargedAmount,
		Description:     tx.Description,
		Memo:            tx.Memo,
		Category:        tx.Category,
		Account:         tx.AccountID,
		Hash:            domain.ResolveIdentity(scheme, tx),
		Comment:         "",
		ScrapedAt:       scrapedAt,
		ScrapedBy:       scrapedBy,
		Identifier:      tx.Identifier,
		ChargedCurrency: charged,
	}
}

// Values returns the row as a slice in Headers order.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Date,
		r.Amount,
		r.Description,
		r.Memo,
		r.Category,
		r.Account,
		r.Hash,
		r.Comment,
		r.ScrapedAt,
		r.ScrapedBy,
		r.Identifier,
		r.ChargedCurrency,
	}
}

// formatDate reformats an ISO date string as dd/MM/yyyy. Unparseable values
// pass through unchanged rather than failing the save.
func formatDate(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return iso
}
