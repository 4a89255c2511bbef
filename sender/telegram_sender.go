package sender

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pizza-storefront/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chattableSender is the part of *tgbotapi.BotAPI the sender needs.
type chattableSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts a short order notice into the shop's chat.
type TelegramSender struct {
	api    chattableSender
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (t *TelegramSender) Name() string { return "telegram" }

func (t *TelegramSender) SendOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	sent, err := t.api.Send(tgbotapi.NewMessage(t.chatID, FormatOrderMessage(event)))
	if err != nil {
		return SendResult{}, fmt.Errorf("telegram send: %w", err)
	}
	return SendResult{
		MessageID: strconv.Itoa(sent.MessageID),
		SentAt:    time.Now(),
	}, nil
}

// FormatOrderMessage renders the plain-text notice for an order.
func FormatOrderMessage(event models.OrderPlacedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", event.OrderID)
	for _, l := range event.Items {
		fmt.Fprintf(&b, "%d x %s (%s) $%s\n", l.Quantity, l.Name, l.Size, l.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Subtotal: $%s\n", event.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Delivery: $%s\n", event.DeliveryFee.StringFixed(2))
	fmt.Fprintf(&b, "Total: $%s", event.Total.StringFixed(2))
	return b.String()
}
