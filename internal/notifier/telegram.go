package notifier

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Button struct {
	Text string
	URL  string
}

type TelegramConfig struct {
	ChatIDs     []int64
	Buttons     []Button
	MaxParallel int
	Message     MessageOptions
}

// Telegram posts one HTML message per configured chat.
type Telegram struct {
	sender   Sender
	cfg      TelegramConfig
	keyboard *tgbotapi.InlineKeyboardMarkup
	logger   *slog.Logger
}

func NewTelegram(sender Sender, cfg TelegramConfig, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.Default()
	}
	return &Telegram{
		sender:   sender,
		cfg:      cfg,
		keyboard: buildKeyboard(cfg.Buttons),
		logger:   logger,
	}
}

// Notify sends to every chat concurrently. Delivery to one chat never
// depends on another; the returned error lists the chats that failed.
func (t *Telegram) Notify(ctx context.Context, record types.TransactionRecord) error {
	text := FormatBuyMessage(record, t.cfg.Message)

	var (
		g    errgroup.Group
		merr types.MultiError
	)
	if t.cfg.MaxParallel > 0 {
		g.SetLimit(t.cfg.MaxParallel)
	}

	for _, chatID := range t.cfg.ChatIDs {
		chatID := chatID
		g.Go(func() error {
			if _, err := t.sender.Send(t.newMessage(chatID, text)); err != nil {
				t.logger.Error("Send notification failed", "chat_id", chatID, "tx_hash", record.TxHash, "err", err)
				merr.Add(fmt.Errorf("chat %d: %w", chatID, err))
				return nil
			}
			t.logger.Info("Notification sent", "chat_id", chatID, "tx_hash", record.TxHash)
			return nil
		})
	}
	_ = g.Wait()

	return merr.ErrOrNil()
}

func (t *Telegram) newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if t.keyboard != nil {
		msg.ReplyMarkup = *t.keyboard
	}
	return msg
}

func buildKeyboard(buttons []Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := lo.Map(buttons, func(b Button, _ int) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
	})
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
