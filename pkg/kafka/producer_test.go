package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/sakashimaa/shop-api/pkg/kafka"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProduceMessage_EncodesJSON(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "order_events" {
			return errors.New("unexpected topic " + msg.Topic)
		}

		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}

		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			return err
		}
		if body["event"] != "order_created" {
			return errors.New("unexpected event")
		}
		return nil
	})

	p := kafka.NewProducerFromSync(sp, zap.NewNop())
	err := p.ProduceMessage(context.Background(), "order_events", map[string]any{"event": "order_created"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProduceMessage_SendError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewProducerFromSync(sp, zap.NewNop())
	err := p.ProduceMessage(context.Background(), "user_events", map[string]any{"event": "user_registered"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
