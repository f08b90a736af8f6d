// Package notifier is the operator-notification channel. Progress and
// summaries go to Telegram; lifecycle markers go to an append-only public
// log on stdout.
package notifier

import (
	"context"
	"fmt"
)

// MessageHandle identifies a previously-sent message for in-place edits.
// Zero means no message.
type MessageHandle int

// Notifier is the fire-and-forget operator sink.
type Notifier interface {
	// Send posts a new message and returns its handle.
	Send(ctx context.Context, text string) (MessageHandle, error)

	// EditMessage replaces the text of a previously-sent message.
	EditMessage(ctx context.Context, handle MessageHandle, text string) error

	// SendError reports a run failure to the operator.
	SendError(ctx context.Context, runErr error) error

	// SendDeprecation posts the operator-facing text for a deprecation key,
	// at most once per key per process. Failures are swallowed.
	SendDeprecation(ctx context.Context, key string)
}

// deprecationMessages maps deprecation keys to their operator-facing text.
var deprecationMessages = map[string]string{
	"hash-field-change": "Transaction identities are moving to the engine-assigned unique ID. " +
		"Set TRANSACTION_HASH_TYPE=stable once your stores have been populated with it.",
	"legacy-hash-dedup": "Some transactions were matched by their legacy hash while the stable " +
		"identity scheme is active. They were skipped, not re-added.",
}

func deprecationText(key string) string {
	if text, ok := deprecationMessages[key]; ok {
		return text
	}
	return fmt.Sprintf("Deprecation notice: %s", key)
}

// LogToPublic writes an append-only lifecycle marker ("Scraping started",
// "Scraping ended") to the public log.
func LogToPublic(message string) {
	fmt.Println(message)
}
