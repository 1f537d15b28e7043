package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fystack/jetton-buy-notifier/pkg/common/config"
	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/logger"
)

var (
	configPath string
	debug      bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jetton-buy-notifier",
		Short:         "Announce jetton buys from tonapi webhooks to Telegram.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

// loadConfig reads the config and initialises the process logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.Environment == constant.EnvProduction,
	})
	logger.Info("Config loaded", "environment", cfg.Environment, "version", cfg.Version)
	return cfg, nil
}
