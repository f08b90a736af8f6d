package notifier

import (
	"context"
	"strings"
	"testing"
)

func TestDeprecationText(t *testing.T) {
	if text := deprecationText("hash-field-change"); !strings.Contains(text, "TRANSACTION_HASH_TYPE") {
		t.Errorf("hash-field-change text = %q", text)
	}
	if text := deprecationText("unknown-key"); !strings.Contains(text, "unknown-key") {
		t.Errorf("unknown key text = %q", text)
	}
}

func TestTelegramDeprecationOnce(t *testing.T) {
	// Exercise the once-per-key tracking without a live bot: the map guard
	// runs before any send.
	tg := &Telegram{sent: map[string]bool{"hash-field-change": true}}

	// Already-sent key returns before touching the nil bot; a second call
	// with the same key must not panic either.
	tg.SendDeprecation(context.Background(), "hash-field-change")
	tg.SendDeprecation(context.Background(), "hash-field-change")

	if !tg.sent["hash-field-change"] {
		t.Error("sent map lost its entry")
	}
}
