package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

// NotifierEvent wraps a record published on the event bus.
type NotifierEvent struct {
	Type      string                  `json:"type"`
	Data      types.TransactionRecord `json:"data"`
	Timestamp int64                   `json:"timestamp"`
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Emitter interface {
	EmitBuy(record types.TransactionRecord) error
	Subject(kind string) string
}

type emitter struct {
	publisher     Publisher
	subjectPrefix string
	now           func() time.Time
}

func NewEmitter(publisher Publisher, subjectPrefix string) Emitter {
	return &emitter{
		publisher:     publisher,
		subjectPrefix: strings.TrimSuffix(subjectPrefix, "."),
		now:           time.Now,
	}
}

func (e *emitter) EmitBuy(record types.TransactionRecord) error {
	data, err := json.Marshal(NotifierEvent{
		Type:      string(record.Kind),
		Data:      record,
		Timestamp: e.now().UTC().Unix(),
	})
	if err != nil {
		return err
	}
	return e.publisher.Publish(e.Subject(constant.SubjectBuySuffix), data)
}

// Subject returns "<prefix>.<kind>".
func (e *emitter) Subject(kind string) string {
	if e.subjectPrefix == "" {
		return kind
	}
	return e.subjectPrefix + "." + kind
}
