// Package notify forwards vault events to operators.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/mixelka/mailvault/internal/event"
)

// queueSize bounds the buffer between Publish and the Telegram API. Events
// past a full buffer are dropped rather than blocking storage operations.
const queueSize = 256

// Telegram is an event sink that posts notifications to a chat.
type Telegram struct {
	bot    *bot.Bot
	chatID int64
	logger *slog.Logger
	queue  chan event.Event
}

// NewTelegram creates a sink posting to chatID.
func NewTelegram(token string, chatID int64, logger *slog.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		bot:    b,
		chatID: chatID,
		logger: logger.With("component", "telegram_notify"),
		queue:  make(chan event.Event, queueSize),
	}, nil
}

// Notify implements event.Sink. It never blocks.
func (t *Telegram) Notify(_ context.Context, e event.Event) {
	select {
	case t.queue <- e:
	default:
		t.logger.Warn("notification queue full, dropping event", "event_id", e.ID)
	}
}

// Run drains the queue until ctx is done.
func (t *Telegram) Run(ctx context.Context) {
	t.logger.Info("telegram notifications enabled", "chat_id", t.chatID)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-t.queue:
			_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    t.chatID,
				Text:      formatEvent(e),
				ParseMode: "HTML",
			})
			if err != nil {
				t.logger.Error("failed to send notification", "error", err, "event_id", e.ID)
			}
		}
	}
}

// formatEvent formats an event for Telegram
func formatEvent(e event.Event) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", escapeHTML(string(e.Kind))))
	sb.WriteString(escapeHTML(e.Text))
	if e.MessageID != 0 {
		sb.WriteString(fmt.Sprintf("\nmessage: <code>%d</code>", e.MessageID))
	}
	return sb.String()
}

// escapeHTML escapes HTML special characters for Telegram
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
