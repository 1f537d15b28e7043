package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fystack/jetton-buy-notifier/internal/classifier"
	"github.com/fystack/jetton-buy-notifier/internal/notifier"
	"github.com/fystack/jetton-buy-notifier/pkg/common/logger"
)

// newCheckCmd classifies a single transaction without notifying anyone.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <tx_hash>",
		Short: "Fetch, classify and gate one transaction.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			event, err := newExplorer(cfg).GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			record, err := classifier.Classify(event)
			if errors.Is(err, classifier.ErrNotClassifiable) {
				fmt.Fprintf(out, "not classifiable: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))

			gate := classifier.NewGate(cfg.Token.MinPrice, logger.L())
			notify := gate.Allow(record)
			fmt.Fprintf(out, "notify: %t (min_price %v)\n", notify, gate.MinPrice())
			if notify {
				fmt.Fprintln(out, notifier.FormatBuyMessage(*record, notifier.MessageOptions{
					Symbol:        cfg.Token.Symbol,
					MinPrice:      cfg.Token.MinPrice,
					ShortenWallet: cfg.Telegram.ShortenWallet,
				}))
			}
			return nil
		},
	}
}
