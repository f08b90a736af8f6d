package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// Nop is the notifier used when no Telegram channel is configured. Every
// message lands in the local log instead.
type Nop struct {
	log zerolog.Logger
}

// NewNop creates a log-only notifier.
func NewNop(log zerolog.Logger) *Nop {
	return &Nop{log: log}
}

// Send implements Notifier.
func (n *Nop) Send(ctx context.Context, text string) (MessageHandle, error) {
	n.log.Info().Str("text", text).Msg("Notification")
	return 0, nil
}

// EditMessage implements Notifier.
func (n *Nop) EditMessage(ctx context.Context, handle MessageHandle, text string) error {
	n.log.Info().Str("text", text).Msg("Notification edit")
	return nil
}

// SendError implements Notifier.
func (n *Nop) SendError(ctx context.Context, runErr error) error {
	n.log.Error().Err(runErr).Msg("Run error")
	return nil
}

// SendDeprecation implements Notifier.
func (n *Nop) SendDeprecation(ctx context.Context, key string) {
	n.log.Warn().Str("key", key).Msg("Deprecation notice")
}
