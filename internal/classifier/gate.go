package classifier

import (
	"log/slog"

	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

// Gate decides whether a classified record triggers a notification.
type Gate struct {
	minPrice float64
	logger   *slog.Logger
}

// NewGate returns a gate passing buys priced at or above minPrice.
func NewGate(minPrice float64, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{minPrice: minPrice, logger: logger}
}

// MinPrice is the configured threshold in TON.
func (g *Gate) MinPrice() float64 {
	return g.minPrice
}

// Allow is IsNotifiable with the gate's threshold. Rejections are logged
// with their reason.
func (g *Gate) Allow(record *types.TransactionRecord) bool {
	if IsNotifiable(record, g.minPrice) {
		return true
	}

	switch {
	case record == nil:
		g.logger.Info("No transaction to notify")
	case record.Kind != types.KindBuy:
		g.logger.Info("Transaction is not a buy", "tx_hash", record.TxHash, "kind", record.Kind)
	default:
		g.logger.Info("Buy below minimum price", "tx_hash", record.TxHash, "price", record.Price, "min_price", g.minPrice)
	}
	return false
}

// IsNotifiable reports whether record is a buy priced at or above minPrice.
func IsNotifiable(record *types.TransactionRecord, minPrice float64) bool {
	if record == nil {
		return false
	}
	if record.Kind != types.KindBuy {
		return false
	}
	if record.Price < minPrice {
		return false
	}
	return true
}
