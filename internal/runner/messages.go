package runner

import (
	"fmt"
	"strings"

	"github.com/moneypipe/moneypipe/internal/scraper"
	"github.com/moneypipe/moneypipe/internal/storage"
)

// maxHighlighted caps the transaction lines in one summary message so it
// stays within Telegram's message size.
const maxHighlighted = 10

// summaryMessages builds the end-of-run operator messages: one per backend
// with its save counts and added transactions, then one with the per-account
// scrape outcomes.
func summaryMessages(results []scraper.AccountResult, allStats []*storage.SaveStats) []string {
	var messages []string

	for _, stats := range allStats {
		var b strings.Builder
		fmt.Fprintf(&b, "📊 %s (%s)\n", stats.Backend, stats.Target)
		fmt.Fprintf(&b, "added: %d, existing: %d, skipped: %d", stats.Added, stats.Existing, stats.Skipped)

		added := stats.Highlighted[storage.HighlightAdded]
		if len(added) > 0 {
			b.WriteString("\n")
			for i, tx := range added {
				if i == maxHighlighted {
					fmt.Fprintf(&b, "\n… and %d more", len(added)-maxHighlighted)
					break
				}
				fmt.Fprintf(&b, "\n%s  %.2f  %s", tx.Date, tx.ChargedAmount, tx.Description)
			}
		}
		messages = append(messages, b.String())
	}

	var b strings.Builder
	b.WriteString("Accounts:")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&b, "\n❌ %s: %v", res.AccountID, res.Err)
		} else {
			fmt.Fprintf(&b, "\n✔️ %s: %d transactions", res.AccountID, len(res.Transactions))
		}
	}
	messages = append(messages, b.String())

	return messages
}
