// Package notifier delivers notifiable records to chats and event sinks.
package notifier

import (
	"context"

	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

type Notifier interface {
	Notify(ctx context.Context, record types.TransactionRecord) error
}

// Multi delivers to every notifier. A failing notifier does not stop the rest;
// all failures are returned together.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, record types.TransactionRecord) error {
	var merr types.MultiError
	for _, n := range m {
		merr.Add(n.Notify(ctx, record))
	}
	return merr.ErrOrNil()
}
