package infra

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/suite"

	"github.com/fystack/jetton-buy-notifier/pkg/common/config"
	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
	"github.com/fystack/jetton-buy-notifier/pkg/events"
)

// Integration tests against a local NATS server on the default port.
type NatsTestSuite struct {
	suite.Suite
	nc     *nats.Conn
	prefix string
}

func (s *NatsTestSuite) SetupSuite() {
	nc, err := GetNATSConnection(config.NatsConfig{URL: nats.DefaultURL}, constant.EnvDevelopment)
	if err != nil {
		s.T().Skip("NATS not available, skipping integration tests")
	}
	s.nc = nc
	s.prefix = "test.jetton"
}

func (s *NatsTestSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
}

func (s *NatsTestSuite) TestEmitBuyIsDelivered() {
	emitter := events.NewEmitter(s.nc, s.prefix)

	sub, err := s.nc.SubscribeSync(emitter.Subject(constant.SubjectBuySuffix))
	s.Require().NoError(err)
	defer sub.Unsubscribe()
	s.Require().NoError(s.nc.Flush())

	record := types.TransactionRecord{
		TxHash:     "abc",
		UserWallet: "W1",
		CreatedAt:  time.Unix(1717957542, 0).UTC(),
		Kind:       types.KindBuy,
		Amount:     2,
		Price:      3000,
	}
	s.Require().NoError(emitter.EmitBuy(record))

	msg, err := sub.NextMsg(2 * time.Second)
	s.Require().NoError(err)

	var got events.NotifierEvent
	s.Require().NoError(json.Unmarshal(msg.Data, &got))
	s.Equal("buy", got.Type)
	s.Equal(record, got.Data)
	s.NotZero(got.Timestamp)
}

func (s *NatsTestSuite) TestSubjectUsesPrefix() {
	emitter := events.NewEmitter(s.nc, s.prefix+".")
	s.Equal("test.jetton.buy", emitter.Subject(constant.SubjectBuySuffix))
}

func TestNatsTestSuite(t *testing.T) {
	suite.Run(t, new(NatsTestSuite))
}
