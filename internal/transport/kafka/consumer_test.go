package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository/memory"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	welcomes      []string
	confirmations []string
	err           error
}

func (r *recordingSender) SendWelcomeEmail(_ context.Context, to, _ string) error {
	r.welcomes = append(r.welcomes, to)
	return r.err
}

func (r *recordingSender) SendOrderConfirmationEmail(_ context.Context, _, _, orderID string, _ float64) error {
	r.confirmations = append(r.confirmations, orderID)
	return r.err
}

func (r *recordingSender) SendOrderStatusEmail(context.Context, string, string, string, domain.OrderStatus) error {
	return r.err
}

type passthroughDedup struct{}

func (passthroughDedup) Process(_ context.Context, _ string, action func() error) error {
	return action()
}

func message(t *testing.T, topic string, body map[string]any) *sarama.ConsumerMessage {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: topic, Value: raw}
}

func newConsumer(sender *recordingSender) *Consumer {
	svc := service.NewNotificationService(sender, passthroughDedup{}, memory.NewUserRepository(), zap.NewNop())
	return NewConsumer(svc, "test-group", zap.NewNop())
}

func TestProcessMessage_Dispatch(t *testing.T) {
	sender := &recordingSender{}
	c := newConsumer(sender)
	ctx := context.Background()

	require.NoError(t, c.ProcessMessage(ctx, message(t, domain.TopicUserEvents, map[string]any{
		"event":    domain.EventUserRegistered,
		"event_id": "e1",
		"payload":  map[string]any{"email": "ann@example.com", "name": "Ann"},
	})))
	require.NoError(t, c.ProcessMessage(ctx, message(t, domain.TopicOrderEvents, map[string]any{
		"event":    domain.EventOrderCreated,
		"event_id": "e2",
		"payload":  map[string]any{"order_id": "o1", "email": "ann@example.com", "total": 10},
	})))

	assert.Equal(t, []string{"ann@example.com"}, sender.welcomes)
	assert.Equal(t, []string{"o1"}, sender.confirmations)
}

func TestProcessMessage_SkipsPoisonMessages(t *testing.T) {
	sender := &recordingSender{}
	c := newConsumer(sender)
	ctx := context.Background()

	require.NoError(t, c.ProcessMessage(ctx, &sarama.ConsumerMessage{Value: []byte("not json")}))
	require.NoError(t, c.ProcessMessage(ctx, message(t, domain.TopicUserEvents, map[string]any{
		"event":   domain.EventUserRegistered,
		"payload": map[string]any{"email": "ann@example.com"},
	})))
	require.NoError(t, c.ProcessMessage(ctx, message(t, domain.TopicProductEvents, map[string]any{
		"event":    domain.EventProductCreated,
		"event_id": "e3",
	})))
	require.NoError(t, c.ProcessMessage(ctx, message(t, domain.TopicOrderEvents, map[string]any{
		"event":    domain.EventOrderStatusChanged,
		"event_id": "e4",
		"payload":  map[string]any{"order_id": "o1", "user_id": "665f1c2e9b1d4a0012345678", "to": "shipped"},
	})))

	assert.Empty(t, sender.welcomes)
}

func TestProcessMessage_HandlerErrorIsReturned(t *testing.T) {
	sender := &recordingSender{err: errors.New("ses down")}
	c := newConsumer(sender)

	err := c.ProcessMessage(context.Background(), message(t, domain.TopicUserEvents, map[string]any{
		"event":    domain.EventUserRegistered,
		"event_id": "e5",
		"payload":  map[string]any{"email": "ann@example.com"},
	}))
	require.ErrorContains(t, err, "ses down")
	assert.Equal(t, []string{"ann@example.com"}, sender.welcomes)
}
