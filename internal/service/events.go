package service

import (
	"context"

	"github.com/sakashimaa/shop-api/pkg/mylogger"
	outboxDomain "github.com/sakashimaa/shop-api/pkg/outbox/domain"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"go.uber.org/zap"
)

// eventRecorder appends domain events to the outbox. A nil repository turns
// it into a no-op, which is how the service runs without Kafka.
type eventRecorder struct {
	outboxRepo worker.OutboxRepository
	logger     *zap.Logger
}

// record never fails the caller: the document write it follows is already
// committed, so a lost event is logged rather than reported as a failed request.
func (r eventRecorder) record(ctx context.Context, topic, aggregateType, aggregateID, eventType string, payload any) {
	if r.outboxRepo == nil {
		return
	}

	event, err := outboxDomain.NewEvent(topic, aggregateType, aggregateID, eventType, payload)
	if err == nil {
		err = r.outboxRepo.SaveOutboxEvent(ctx, event)
	}
	if err != nil {
		mylogger.Error(
			ctx,
			r.logger,
			"Error saving outbox event",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}
