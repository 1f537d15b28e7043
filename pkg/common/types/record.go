package types

import (
	"fmt"
	"time"
)

type TxKind string

const (
	KindBuy  TxKind = "buy"
	KindSell TxKind = "sell"
)

// TransactionRecord is a classified jetton trade. Amount is denominated in the
// tracked jetton and Price in TON, both already scaled by their decimals.
type TransactionRecord struct {
	TxHash     string    `json:"txHash"`
	UserWallet string    `json:"userWallet"`
	CreatedAt  time.Time `json:"createdAt"`
	Kind       TxKind    `json:"kind"`
	Amount     float64   `json:"amount"`
	Price      float64   `json:"price"`
}

func (r TransactionRecord) String() string {
	return fmt.Sprintf(
		"{TxHash: %s, UserWallet: %s, CreatedAt: %s, Kind: %s, Amount: %g, Price: %g}",
		r.TxHash,
		r.UserWallet,
		r.CreatedAt.Format(time.RFC3339),
		r.Kind,
		r.Amount,
		r.Price,
	)
}
