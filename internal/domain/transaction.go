package domain

// TransactionStatus is the settlement state reported by the source institution.
type TransactionStatus string

const (
	// StatusPending marks a transaction not yet finalized by the institution.
	// Pending transactions must never be persisted; they may be reported again
	// once completed, possibly with a different amount.
	StatusPending TransactionStatus = "pending"
	// StatusCompleted marks a finalized transaction.
	StatusCompleted TransactionStatus = "completed"
)

// Transaction is one financial movement as reported by a scraped account.
type Transaction struct {
	// AccountID identifies the configured account this movement was scraped from.
	AccountID string `json:"accountId"`

	// Date is the transaction date as an ISO 8601 string (RFC 3339 or YYYY-MM-DD).
	Date string `json:"date"`

	// ChargedAmount is the signed amount in the charged currency.
	ChargedAmount float64 `json:"chargedAmount"`

	// OriginalCurrency is the currency the transaction was made in.
	OriginalCurrency string `json:"originalCurrency"`

	// ChargedCurrency is the currency the account was charged in.
	// Empty when the source did not report it; OriginalCurrency is the fallback.
	ChargedCurrency string `json:"chargedCurrency,omitempty"`

	Description string `json:"description"`
	Memo        string `json:"memo,omitempty"`
	Category    string `json:"category,omitempty"`

	// Identifier is an optional bank-provided reference number.
	Identifier string `json:"identifier,omitempty"`

	Status TransactionStatus `json:"status"`

	// LegacyHash is derived from transaction content. It is collision-prone
	// across accounts and sources and is being phased out.
	LegacyHash string `json:"hash"`

	// UniqueID is assigned by the scraper engine and intended to be globally
	// stable per real-world transaction.
	UniqueID string `json:"uniqueId"`
}

// Pending reports whether the transaction is still provisional.
func (t Transaction) Pending() bool {
	return t.Status == StatusPending
}
