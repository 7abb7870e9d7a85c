package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sakashimaa/shop-api/pkg/outbox/domain"
	"github.com/sakashimaa/shop-api/pkg/outbox/repository"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	topic   string
	message map[string]any
}

type fakeProducer struct {
	mu   sync.Mutex
	fail error
	sent []sentMessage
}

func (f *fakeProducer) ProduceMessage(_ context.Context, topic string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMessage{topic: topic, message: message.(map[string]any)})
	return nil
}

func saveEvent(t *testing.T, repo worker.OutboxRepository, eventType string) *domain.OutboxEvent {
	t.Helper()

	ev, err := domain.NewEvent("product_events", "product", "1", eventType, map[string]any{"product_id": 1})
	require.NoError(t, err)
	require.NoError(t, repo.SaveOutboxEvent(context.Background(), ev))
	return ev
}

func TestProcessBatch_PublishesAndMarks(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryOutboxRepository()
	producer := &fakeProducer{}
	p := worker.NewOutboxProcessor(repo, producer, zap.NewNop())

	ev := saveEvent(t, repo, "product_created")

	require.NoError(t, p.ProcessBatch(ctx))
	require.Len(t, producer.sent, 1)
	require.Equal(t, "product_events", producer.sent[0].topic)
	require.Equal(t, "product_created", producer.sent[0].message["event"])
	require.Equal(t, ev.Id.Hex(), producer.sent[0].message["event_id"])

	pending, err := repo.GetUnpublishedEvents(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.NoError(t, p.ProcessBatch(ctx))
	require.Len(t, producer.sent, 1)
}

func TestProcessBatch_FailedPublishStaysPending(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryOutboxRepository()
	producer := &fakeProducer{fail: errors.New("broker down")}
	p := worker.NewOutboxProcessor(repo, producer, zap.NewNop())

	saveEvent(t, repo, "product_removed")

	require.NoError(t, p.ProcessBatch(ctx))

	pending, err := repo.GetUnpublishedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.EqualValues(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)
	require.Equal(t, "broker down", *pending[0].LastError)

	producer.fail = nil
	require.NoError(t, p.ProcessBatch(ctx))
	require.Len(t, producer.sent, 1)
}
