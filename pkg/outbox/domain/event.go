package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OutboxEvent struct {
	Id            primitive.ObjectID `bson:"_id,omitempty"`
	AggregateType string             `bson:"aggregate_type"`
	AggregateID   string             `bson:"aggregate_id"`
	EventType     string             `bson:"event_type"`
	Payload       json.RawMessage    `bson:"payload"`
	CreatedAt     time.Time          `bson:"created_at"`
	PublishedAt   *time.Time         `bson:"published_at,omitempty"`
	Attempts      int64              `bson:"attempts"`
	LastError     *string            `bson:"last_error,omitempty"`
	Topic         string             `bson:"topic"`
}

// NewEvent wraps payload into the {"event": ..., "payload": ...} envelope
// consumers expect.
func NewEvent(topic, aggregateType, aggregateID, eventType string, payload any) (*OutboxEvent, error) {
	envelope := map[string]any{
		"event":   eventType,
		"payload": payload,
	}

	payloadBytes, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("event payload marshal error: %w", err)
	}

	return &OutboxEvent{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payloadBytes,
		Topic:         topic,
	}, nil
}
