// Package classifier turns tonapi events into buy/sell records and decides
// which of them are worth a notification.
package classifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/fystack/jetton-buy-notifier/internal/tonapi"
	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

var (
	// ErrNotClassifiable means the event holds no recognised trade pattern.
	ErrNotClassifiable = errors.New("event is not classifiable")
	// ErrMissingTimestamp is a fatal input error, never defaulted.
	ErrMissingTimestamp = errors.New("event has no timestamp")
)

// legs accumulates the fields read from swap and transfer actions.
type legs struct {
	amountIn    tonapi.Amount
	amountOut   tonapi.Amount
	tonIn       tonapi.Amount
	decimalsIn  int32
	decimalsOut int32
	wallet      string
}

// Classify builds a TransactionRecord from ev.
//
// Actions are scanned in order and only status "ok" is considered. The first
// JettonSwap wins and ends the scan. JettonTransfer actions accumulate: a
// self-transfer (senders_wallet == recipients_wallet) is the jetton leg of a
// buy, any other transfer is the TON leg and names the buyer.
func Classify(ev *tonapi.Event) (*types.TransactionRecord, error) {
	if ev == nil {
		return nil, fmt.Errorf("%w: nil event", ErrNotClassifiable)
	}
	if ev.Timestamp == nil {
		return nil, ErrMissingTimestamp
	}
	if ev.EventID == "" {
		return nil, fmt.Errorf("%w: missing event id", ErrNotClassifiable)
	}

	var l legs
scan:
	for i, action := range ev.Actions {
		if action.Status != constant.ActionStatusOK {
			continue
		}

		switch action.Type {
		case constant.ActionJettonSwap:
			swap := action.JettonSwap
			if swap == nil {
				return nil, fmt.Errorf("%w: action %d has no %s body", ErrNotClassifiable, i, action.Type)
			}
			wallet := swap.UserWallet.AddressOrEmpty()
			if wallet == "" {
				return nil, fmt.Errorf("%w: swap action %d has no user wallet", ErrNotClassifiable, i)
			}
			l = legs{
				amountIn:    swap.AmountIn,
				amountOut:   swap.AmountOut,
				tonIn:       swap.TonIn,
				decimalsIn:  swap.JettonMasterIn.DecimalsOrZero(),
				decimalsOut: swap.JettonMasterOut.DecimalsOrZero(),
				wallet:      wallet,
			}
			break scan

		case constant.ActionJettonTransfer:
			transfer := action.JettonTransfer
			if transfer == nil {
				continue
			}
			if transfer.SendersWallet == transfer.RecipientsWallet {
				l.amountOut = transfer.Amount
				l.decimalsOut = transfer.Jetton.DecimalsOrZero()
			} else {
				l.tonIn = transfer.Amount
				l.decimalsIn = transfer.Jetton.DecimalsOrZero()
				l.wallet = transfer.SendersWallet
			}
		}
	}

	record := &types.TransactionRecord{
		TxHash:     ev.EventID,
		UserWallet: l.wallet,
		CreatedAt:  time.Unix(*ev.Timestamp, 0).UTC(),
	}

	switch {
	case !l.amountIn.IsZero() && !l.amountOut.IsZero():
		record.Kind = types.KindSell
		record.Amount = l.amountIn.Scale(l.decimalsIn)
		record.Price = l.amountOut.Scale(l.decimalsOut)
	case !l.amountOut.IsZero() && !l.tonIn.IsZero():
		record.Kind = types.KindBuy
		record.Amount = l.amountOut.Scale(l.decimalsOut)
		// The TON leg is scaled by the jetton leg's decimals, not TON's 9.
		// Downstream thresholds are tuned against this value.
		record.Price = l.tonIn.Scale(l.decimalsOut)
	default:
		return nil, ErrNotClassifiable
	}

	return record, nil
}
