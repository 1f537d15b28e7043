package classifier

import (
	"errors"
	"testing"
	"time"

	"github.com/fystack/jetton-buy-notifier/internal/tonapi"
	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventID   = "b5e2f0a1"
	testTimestamp = int64(1717957542)
)

func decode(t *testing.T, payload string) *tonapi.Event {
	t.Helper()
	ev, err := tonapi.DecodeEvent([]byte(payload))
	require.NoError(t, err)
	return ev
}

func event(actions ...tonapi.Action) *tonapi.Event {
	ts := testTimestamp
	return &tonapi.Event{EventID: testEventID, Timestamp: &ts, Actions: actions}
}

func swapAction(status string, in, out, tonIn int64, decIn, decOut int32, wallet string) tonapi.Action {
	return tonapi.Action{
		Type:   "JettonSwap",
		Status: status,
		JettonSwap: &tonapi.JettonSwapAction{
			AmountIn:        tonapi.NewAmount(in),
			AmountOut:       tonapi.NewAmount(out),
			TonIn:           tonapi.NewAmount(tonIn),
			UserWallet:      &tonapi.AccountAddress{Address: wallet},
			JettonMasterIn:  &tonapi.JettonPreview{Decimals: decIn},
			JettonMasterOut: &tonapi.JettonPreview{Decimals: decOut},
		},
	}
}

func transferAction(status, from, to string, amount int64, decimals int32) tonapi.Action {
	return tonapi.Action{
		Type:   "JettonTransfer",
		Status: status,
		JettonTransfer: &tonapi.JettonTransferAction{
			SendersWallet:    from,
			RecipientsWallet: to,
			Amount:           tonapi.NewAmount(amount),
			Jetton:           &tonapi.JettonPreview{Decimals: decimals},
		},
	}
}

func TestClassify_NotClassifiable(t *testing.T) {
	tests := []struct {
		name string
		ev   *tonapi.Event
	}{
		{name: "no actions", ev: event()},
		{
			name: "only failed actions",
			ev: event(
				swapAction("failed", 1_000_000_000, 500, 0, 9, 2, "W"),
				transferAction("failed", "A", "A", 2_000_000, 6),
				transferAction("failed", "W1", "B", 3_000_000_000, 9),
			),
		},
		{
			name: "unknown action types",
			ev:   event(tonapi.Action{Type: "TonTransfer", Status: "ok"}, tonapi.Action{Type: "NftItemTransfer", Status: "ok"}),
		},
		{
			name: "only jetton leg",
			ev:   event(transferAction("ok", "A", "A", 2_000_000, 6)),
		},
		{
			name: "only ton leg",
			ev:   event(transferAction("ok", "W1", "B", 3_000_000_000, 9)),
		},
		{
			name: "swap with nothing out",
			ev:   event(swapAction("ok", 1_000, 0, 5, 9, 9, "W")),
		},
		{
			name: "transfer without body",
			ev:   event(tonapi.Action{Type: "JettonTransfer", Status: "ok"}),
		},
		{
			name: "missing event id",
			ev: &tonapi.Event{
				Timestamp: func() *int64 { ts := testTimestamp; return &ts }(),
				Actions:   []tonapi.Action{swapAction("ok", 1_000_000_000, 500, 0, 9, 2, "W")},
			},
		},
		{name: "nil event", ev: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Classify(tt.ev)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, ErrNotClassifiable)
		})
	}
}

func TestClassify_FailedActionWithMalformedBodyIsSkipped(t *testing.T) {
	ev := decode(t, `{"event_id":"buy-1","timestamp":1717957542,"actions":[
		{"type":"JettonSwap","status":"failed","JettonSwap":{"amount_in":"-1","amount_out":"abc"}},
		{"type":"JettonTransfer","status":"ok","JettonTransfer":{"senders_wallet":"A","recipients_wallet":"A","amount":"2000000","jetton":{"decimals":6}}},
		{"type":"JettonTransfer","status":"ok","JettonTransfer":{"senders_wallet":"W1","recipients_wallet":"B","amount":"3000000000","jetton":{"decimals":9}}}
	]}`)

	record, err := Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, types.KindBuy, record.Kind)
	assert.InDelta(t, 2.0, record.Amount, 1e-9)
	assert.InDelta(t, 3000.0, record.Price, 1e-9)
	assert.Equal(t, "W1", record.UserWallet)
}

func TestClassify_SwapWithEmptyWalletAddress(t *testing.T) {
	record, err := Classify(event(swapAction("ok", 1_000_000_000, 500, 0, 9, 2, "")))
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrNotClassifiable)
}

func TestClassify_MissingTimestampIsFatal(t *testing.T) {
	ev := decode(t, `{"event_id":"abc","actions":[{"type":"JettonSwap","status":"ok","JettonSwap":{"amount_in":"1","amount_out":"1","user_wallet":{"address":"W"}}}]}`)

	record, err := Classify(ev)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrMissingTimestamp)
	assert.False(t, errors.Is(err, ErrNotClassifiable))
}

func TestClassify_SwapSell(t *testing.T) {
	record, err := Classify(event(swapAction("ok", 1_000_000_000, 500, 0, 9, 2, "EQSeller")))
	require.NoError(t, err)

	assert.Equal(t, types.KindSell, record.Kind)
	assert.Equal(t, 1.0, record.Amount)
	assert.Equal(t, 5.0, record.Price)
	assert.Equal(t, "EQSeller", record.UserWallet)
	assert.Equal(t, testEventID, record.TxHash)
	assert.Equal(t, time.Unix(testTimestamp, 0).UTC(), record.CreatedAt)
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
}

func TestClassify_SwapSellFromJSON(t *testing.T) {
	ev := decode(t, `{
		"event_id": "e1",
		"timestamp": 1700000000,
		"actions": [{
			"type": "JettonSwap",
			"status": "ok",
			"JettonSwap": {
				"amount_in": "1000000000",
				"amount_out": "500",
				"user_wallet": {"address": "0:abc"},
				"jetton_master_in": {"decimals": 9},
				"jetton_master_out": {"decimals": 2}
			}
		}]
	}`)

	record, err := Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, types.KindSell, record.Kind)
	assert.Equal(t, 1.0, record.Amount)
	assert.Equal(t, 5.0, record.Price)
	assert.Equal(t, "0:abc", record.UserWallet)
}

func TestClassify_SwapBuyWithZeroAmountIn(t *testing.T) {
	// amount_in missing/empty, ton_in set: the buy branch applies
	ev := decode(t, `{
		"event_id": "e2",
		"timestamp": 1700000000,
		"actions": [{
			"type": "JettonSwap",
			"status": "ok",
			"JettonSwap": {
				"amount_in": "",
				"amount_out": "2500000",
				"ton_in": 7000000,
				"user_wallet": {"address": "0:buyer"},
				"jetton_master_out": {"decimals": 6}
			}
		}]
	}`)

	record, err := Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, types.KindBuy, record.Kind)
	assert.Equal(t, 2.5, record.Amount)
	assert.Equal(t, 7.0, record.Price)
	assert.Equal(t, "0:buyer", record.UserWallet)
}

func TestClassify_SwapMissingDecimalsScalesByOne(t *testing.T) {
	ev := decode(t, `{
		"event_id": "e3",
		"timestamp": 1700000000,
		"actions": [{"type":"JettonSwap","status":"ok","JettonSwap":{"amount_in":"12","amount_out":"34","user_wallet":{"address":"W"}}}]
	}`)

	record, err := Classify(ev)
	require.NoError(t, err)
	assert.Equal(t, 12.0, record.Amount)
	assert.Equal(t, 34.0, record.Price)
}

func TestClassify_FirstSwapWins(t *testing.T) {
	record, err := Classify(event(
		swapAction("failed", 9, 9, 0, 0, 0, "ignored"),
		swapAction("ok", 1_000_000_000, 500, 0, 9, 2, "first"),
		swapAction("ok", 0, 800, 100, 0, 0, "second"),
	))
	require.NoError(t, err)
	assert.Equal(t, types.KindSell, record.Kind)
	assert.Equal(t, "first", record.UserWallet)
}

func TestClassify_SwapOverridesEarlierTransfers(t *testing.T) {
	record, err := Classify(event(
		transferAction("ok", "W1", "B", 3_000_000_000, 9),
		swapAction("ok", 1_000_000_000, 500, 0, 9, 2, "swapper"),
		transferAction("ok", "A", "A", 2_000_000, 6),
	))
	require.NoError(t, err)
	assert.Equal(t, types.KindSell, record.Kind)
	assert.Equal(t, "swapper", record.UserWallet)
}

func TestClassify_MalformedSwap(t *testing.T) {
	tests := []struct {
		name   string
		action tonapi.Action
	}{
		{name: "no body", action: tonapi.Action{Type: "JettonSwap", Status: "ok"}},
		{
			name: "no user wallet",
			action: tonapi.Action{Type: "JettonSwap", Status: "ok", JettonSwap: &tonapi.JettonSwapAction{
				AmountIn:  tonapi.NewAmount(1),
				AmountOut: tonapi.NewAmount(1),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Classify(event(tt.action))
			assert.Nil(t, record)
			assert.ErrorIs(t, err, ErrNotClassifiable)
		})
	}
}

func TestClassify_TransferLegsBuy(t *testing.T) {
	jettonLeg := transferAction("ok", "EQpool", "EQpool", 2_000_000, 6)
	tonLeg := transferAction("ok", "W1", "EQpool", 3_000_000_000, 9)

	orders := map[string][]tonapi.Action{
		"jetton leg first": {jettonLeg, tonLeg},
		"ton leg first":    {tonLeg, jettonLeg},
		"interleaved":      {tonLeg, {Type: "TonTransfer", Status: "ok"}, transferAction("failed", "X", "X", 1, 0), jettonLeg},
	}

	for name, actions := range orders {
		t.Run(name, func(t *testing.T) {
			record, err := Classify(event(actions...))
			require.NoError(t, err)

			assert.Equal(t, types.KindBuy, record.Kind)
			assert.Equal(t, 2.0, record.Amount)
			// price keeps the jetton leg's divisor (10^6), not TON's 10^9
			assert.Equal(t, 3_000_000_000/1e6, record.Price)
			assert.Equal(t, 3000.0, record.Price)
			assert.Equal(t, "W1", record.UserWallet)
		})
	}
}

func TestClassify_LaterTransferLegOverwrites(t *testing.T) {
	record, err := Classify(event(
		transferAction("ok", "W1", "P", 1_000_000, 6),
		transferAction("ok", "W2", "P", 5_000_000, 6),
		transferAction("ok", "P", "P", 4_000_000, 6),
	))
	require.NoError(t, err)
	assert.Equal(t, "W2", record.UserWallet)
	assert.Equal(t, 5.0, record.Price)
	assert.Equal(t, 4.0, record.Amount)
}
