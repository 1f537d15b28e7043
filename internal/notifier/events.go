package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
	"github.com/fystack/jetton-buy-notifier/pkg/events"
)

// Events publishes notifiable records on the event bus for other consumers.
type Events struct {
	emitter events.Emitter
	logger  *slog.Logger
}

func NewEvents(emitter events.Emitter, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{emitter: emitter, logger: logger}
}

func (e *Events) Notify(_ context.Context, record types.TransactionRecord) error {
	if err := e.emitter.EmitBuy(record); err != nil {
		return fmt.Errorf("emit %s: %w", record.TxHash, err)
	}
	e.logger.Debug("Buy event published", "tx_hash", record.TxHash, "subject", e.emitter.Subject(string(record.Kind)))
	return nil
}
