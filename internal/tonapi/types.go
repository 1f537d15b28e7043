package tonapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
)

// Event is the subset of tonapi's /v2/events/{id} payload the notifier reads.
type Event struct {
	EventID    string   `json:"event_id"`
	Timestamp  *int64   `json:"timestamp"`
	Actions    []Action `json:"actions"`
	Lt         int64    `json:"lt"`
	IsScam     bool     `json:"is_scam"`
	InProgress bool     `json:"in_progress"`
}

// Action is a tagged variant: Type names the populated body. Bodies of
// action types the notifier does not interpret are not decoded, and neither
// are the bodies of actions whose status is not "ok".
type Action struct {
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	JettonSwap     *JettonSwapAction     `json:"JettonSwap,omitempty"`
	JettonTransfer *JettonTransferAction `json:"JettonTransfer,omitempty"`
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type           string          `json:"type"`
		Status         string          `json:"status"`
		JettonSwap     json.RawMessage `json:"JettonSwap"`
		JettonTransfer json.RawMessage `json:"JettonTransfer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Action{Type: raw.Type, Status: raw.Status}
	if a.Status != constant.ActionStatusOK {
		return nil
	}

	var err error
	if a.JettonSwap, err = decodeBody[JettonSwapAction](raw.JettonSwap); err != nil {
		return fmt.Errorf("%s body: %w", constant.ActionJettonSwap, err)
	}
	if a.JettonTransfer, err = decodeBody[JettonTransferAction](raw.JettonTransfer); err != nil {
		return fmt.Errorf("%s body: %w", constant.ActionJettonTransfer, err)
	}
	return nil
}

// decodeBody returns nil for an absent or null body.
func decodeBody[T any](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var body T
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

type AccountAddress struct {
	Address  string `json:"address"`
	Name     string `json:"name,omitempty"`
	IsScam   bool   `json:"is_scam"`
	IsWallet bool   `json:"is_wallet"`
}

type JettonPreview struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Decimals     int32  `json:"decimals"`
	Image        string `json:"image,omitempty"`
	Verification string `json:"verification,omitempty"`
}

type JettonSwapAction struct {
	Dex             string          `json:"dex"`
	AmountIn        Amount          `json:"amount_in"`
	AmountOut       Amount          `json:"amount_out"`
	TonIn           Amount          `json:"ton_in"`
	TonOut          Amount          `json:"ton_out"`
	UserWallet      *AccountAddress `json:"user_wallet"`
	Router          *AccountAddress `json:"router"`
	JettonMasterIn  *JettonPreview  `json:"jetton_master_in"`
	JettonMasterOut *JettonPreview  `json:"jetton_master_out"`
}

type JettonTransferAction struct {
	Sender           *AccountAddress `json:"sender"`
	Recipient        *AccountAddress `json:"recipient"`
	SendersWallet    string          `json:"senders_wallet"`
	RecipientsWallet string          `json:"recipients_wallet"`
	Amount           Amount          `json:"amount"`
	Comment          string          `json:"comment,omitempty"`
	Jetton           *JettonPreview  `json:"jetton"`
}

// DecimalsOrZero returns the preview's decimals, 0 when the preview is absent.
func (p *JettonPreview) DecimalsOrZero() int32 {
	if p == nil {
		return 0
	}
	return p.Decimals
}

// AddressOrEmpty returns the account address, "" when the account is absent.
func (a *AccountAddress) AddressOrEmpty() string {
	if a == nil {
		return ""
	}
	return a.Address
}

// Amount is a raw (unscaled) integer quantity. tonapi sends jetton amounts as
// strings and TON amounts as numbers; both are accepted. null and "" decode
// to zero, negative values are rejected.
type Amount struct {
	decimal.Decimal
}

func NewAmount(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		a.Decimal = decimal.Zero
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("invalid amount %s: %w", trimmed, err)
	}
	if d.IsNegative() {
		return fmt.Errorf("invalid amount %s: negative", trimmed)
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Decimal.String())
}

// Scale converts the raw amount to a float by dividing by 10^decimals.
func (a Amount) Scale(decimals int32) float64 {
	return a.Decimal.Shift(-decimals).InexactFloat64()
}

// DecodeEvent parses a tonapi event body.
func DecodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}
