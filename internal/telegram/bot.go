package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fystack/jetton-buy-notifier/pkg/common/config"
)

const minPollTimeout = 1

// NewBot creates a bot client whose every request is bounded by cfg.Timeout.
// The client is shared across requests; BotAPI is safe for concurrent Send.
func NewBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// PollTimeout is the long-poll duration (seconds) that still fits inside the
// HTTP client timeout.
func PollTimeout(clientTimeout time.Duration) int {
	secs := int((clientTimeout - 2*time.Second) / time.Second)
	if secs < minPollTimeout {
		return minPollTimeout
	}
	return secs
}
