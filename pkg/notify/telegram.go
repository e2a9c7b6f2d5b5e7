package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of the Telegram bot client used by TelegramNotifier.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers notifications as chat messages. Recipients are
// Telegram chat ids.
type TelegramNotifier struct {
	Bot BotAPI
}

// NewTelegramNotifier creates a TelegramNotifier from a bot token.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{Bot: bot}, nil
}

// Make sure we conform to the interface
var _ Notifier = (*TelegramNotifier)(nil)

// Notify sends the rendered notification to the recipient's chat.
func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	chatID, err := strconv.ParseInt(n.Recipient, 10, 64)
	if err != nil {
		return fmt.Errorf("recipient %q is not a chat id: %w", n.Recipient, err)
	}

	if _, err := t.Bot.Send(tgbotapi.NewMessage(chatID, n.Text())); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
