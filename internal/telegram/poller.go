package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const cmdChatID = "chatid"

// UpdatesBot is the subset of *tgbotapi.BotAPI the poller uses.
type UpdatesBot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Poller runs the bot's long-polling loop next to the webhook server.
type Poller struct {
	bot     UpdatesBot
	timeout int
	logger  *slog.Logger
}

func NewPoller(bot UpdatesBot, timeout int, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{bot: bot, timeout: timeout, logger: logger}
}

// Run consumes updates until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout

	updates := p.bot.GetUpdatesChan(u)
	defer p.bot.StopReceivingUpdates()

	p.logger.Info("Telegram polling started", "timeout", p.timeout)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.handle(update)
		}
	}
}

func (p *Poller) handle(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		p.logger.Debug("Ignoring update", "update_id", update.UpdateID)
		return
	}
	if !msg.IsCommand() || msg.Command() != cmdChatID {
		p.logger.Debug("Ignoring message", "update_id", update.UpdateID, "chat_id", msg.Chat.ID)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Chat ID: <code>%d</code>", msg.Chat.ID))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyToMessageID = msg.MessageID
	if _, err := p.bot.Send(reply); err != nil {
		p.logger.Error("Reply to chatid command failed", "chat_id", msg.Chat.ID, "err", err)
		return
	}
	p.logger.Info("Answered chatid command", "chat_id", msg.Chat.ID)
}
