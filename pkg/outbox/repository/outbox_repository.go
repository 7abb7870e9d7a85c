package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sakashimaa/shop-api/pkg/outbox/domain"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxAttempts = 10

type outboxRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOutboxRepository(db *mongo.Database, logger *zap.Logger) worker.OutboxRepository {
	return &outboxRepo{
		coll:   db.Collection("outbox"),
		tracer: otel.Tracer("contract/outbox_repo"),
		logger: logger,
	}
}

// EnsureIndexes creates the index backing GetUnpublishedEvents.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("outbox").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "published_at", Value: 1},
			{Key: "created_at", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("error creating outbox index: %w", err)
	}

	return nil
}

func (r *outboxRepo) MarkEventFailed(ctx context.Context, eventID primitive.ObjectID, errMsg string) error {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.MarkEventFailed")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID.Hex()),
		attribute.String("outbox.error_message", errMsg),
	)

	_, err := r.coll.UpdateByID(ctx, eventID, bson.M{
		"$set":   bson.M{"last_error": errMsg},
		"$unset": bson.M{"published_at": ""},
		"$inc":   bson.M{"attempts": 1},
	})
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (r *outboxRepo) MarkEventPublished(ctx context.Context, eventID primitive.ObjectID) error {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.MarkEventPublished")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID.Hex()),
	)

	_, err := r.coll.UpdateByID(ctx, eventID, bson.M{
		"$set":   bson.M{"published_at": time.Now().UTC()},
		"$unset": bson.M{"last_error": ""},
	})
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (r *outboxRepo) SaveOutboxEvent(ctx context.Context, event *domain.OutboxEvent) error {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.SaveOutboxEvent")
	defer span.End()

	span.SetAttributes(
		attribute.String("aggregate_id", event.AggregateID),
		attribute.String("aggregate_type", event.AggregateType),
	)

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, event)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.Id = id
	}

	return nil
}

func (r *outboxRepo) GetUnpublishedEvents(ctx context.Context, batchSize int) ([]*domain.OutboxEvent, error) {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.GetUnpublishedEvents")
	defer span.End()

	span.SetAttributes(
		attribute.Int("batch_size", batchSize),
	)

	filter := bson.M{
		"published_at": nil,
		"attempts":     bson.M{"$lt": maxAttempts},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(batchSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query unpublished events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error decoding events: %w", err)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(events)),
	)

	return events, nil
}
