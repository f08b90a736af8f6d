package notifier

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram sends operator notifications to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger

	mu   sync.Mutex
	sent map[string]bool // deprecation keys already delivered
}

// NewTelegram authenticates the bot and returns a Telegram notifier.
func NewTelegram(apiKey string, chatID int64, log zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		log:    log,
		sent:   make(map[string]bool),
	}, nil
}

// Send implements Notifier.
func (t *Telegram) Send(ctx context.Context, text string) (MessageHandle, error) {
	msg, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text))
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return MessageHandle(msg.MessageID), nil
}

// EditMessage implements Notifier. Editing with unchanged text is rejected
// by the API; that rejection is not worth surfacing.
func (t *Telegram) EditMessage(ctx context.Context, handle MessageHandle, text string) error {
	if handle == 0 {
		return nil
	}
	_, err := t.bot.Send(tgbotapi.NewEditMessageText(t.chatID, int(handle), text))
	if err != nil {
		return fmt.Errorf("editing message %d: %w", handle, err)
	}
	return nil
}

// SendError implements Notifier.
func (t *Telegram) SendError(ctx context.Context, runErr error) error {
	_, err := t.Send(ctx, fmt.Sprintf("Something went wrong:\n%v", runErr))
	return err
}

// SendDeprecation implements Notifier.
func (t *Telegram) SendDeprecation(ctx context.Context, key string) {
	t.mu.Lock()
	already := t.sent[key]
	t.sent[key] = true
	t.mu.Unlock()
	if already {
		return
	}

	if _, err := t.Send(ctx, deprecationText(key)); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("Failed to send deprecation notice")
	}
}
