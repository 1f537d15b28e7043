package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fystack/jetton-buy-notifier/internal/classifier"
	"github.com/fystack/jetton-buy-notifier/internal/notifier"
	"github.com/fystack/jetton-buy-notifier/internal/telegram"
	"github.com/fystack/jetton-buy-notifier/internal/tonapi"
	"github.com/fystack/jetton-buy-notifier/internal/webhook"
	"github.com/fystack/jetton-buy-notifier/pkg/common/config"
	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/logger"
	"github.com/fystack/jetton-buy-notifier/pkg/events"
	"github.com/fystack/jetton-buy-notifier/pkg/infra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and the bot poller.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}
	logger.Info("Telegram bot authorized", "username", bot.Self.UserName)

	notifiers := notifier.Multi{
		notifier.NewTelegram(bot, telegramNotifierConfig(cfg), logger.L()),
	}

	if cfg.Nats.Enabled {
		nc, err := infra.GetNATSConnection(cfg.Nats, cfg.Environment)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Close()

		emitter := events.NewEmitter(nc, cfg.Nats.SubjectPrefix)
		notifiers = append(notifiers, notifier.NewEvents(emitter, logger.L()))
		logger.Info("Publishing buys to NATS", "subject", emitter.Subject(constant.SubjectBuySuffix))
	}

	handler := webhook.NewHandler(
		newExplorer(cfg),
		classifier.NewGate(cfg.Token.MinPrice, logger.L()),
		notifiers,
		logger.L(),
		cfg.Version,
	)
	server := webhook.NewServer(cfg.Server, handler, logger.L())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Telegram.PollingEnabled() {
		poller := telegram.NewPoller(bot, telegram.PollTimeout(cfg.Telegram.Timeout), logger.L())
		g.Go(func() error { return poller.Run(gctx) })
	}

	logger.Info("Notifier is running... Press Ctrl+C to stop")
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Notifier stopped")
	return nil
}

func newExplorer(cfg *config.Config) *tonapi.Client {
	return tonapi.NewClient(tonapi.ClientConfig{
		BaseURL: cfg.Explorer.BaseURL,
		APIKey:  cfg.Explorer.APIKey,
		Timeout: cfg.Explorer.Timeout,
		RPS:     cfg.Explorer.Throttle.RPS,
		Burst:   cfg.Explorer.Throttle.Burst,
	}, logger.L())
}

func telegramNotifierConfig(cfg *config.Config) notifier.TelegramConfig {
	return notifier.TelegramConfig{
		ChatIDs: cfg.Telegram.ChatIDs,
		Buttons: lo.Map(cfg.Telegram.Buttons, func(b config.Button, _ int) notifier.Button {
			return notifier.Button{Text: b.Text, URL: b.URL}
		}),
		MaxParallel: cfg.Telegram.MaxParallel,
		Message: notifier.MessageOptions{
			Symbol:        cfg.Token.Symbol,
			MinPrice:      cfg.Token.MinPrice,
			ShortenWallet: cfg.Telegram.ShortenWallet,
		},
	}
}
