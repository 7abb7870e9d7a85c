package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	sendAttempts  = 3
	retryInterval = 500 * time.Millisecond
)

// Deduplicator runs an action at most once per event id.
type Deduplicator interface {
	Process(ctx context.Context, eventID string, action func() error) error
}

type redisDeduplicator struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDeduplicator claims event ids with SET NX. Claims expire after ttl,
// which bounds how long a redelivered event is recognised.
func NewRedisDeduplicator(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) Deduplicator {
	return &redisDeduplicator{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func processedKey(eventID string) string {
	return "processed_event:" + eventID
}

func (d *redisDeduplicator) Process(ctx context.Context, eventID string, action func() error) error {
	span := trace.SpanFromContext(ctx)
	key := processedKey(eventID)

	claimed, err := d.client.SetNX(ctx, key, time.Now().UTC().Unix(), d.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error claiming event %s: %w", eventID, err)
	}

	if !claimed {
		mylogger.Info(
			ctx,
			d.logger,
			"Event already processed, skipping",
			zap.String("event_id", eventID),
		)

		return nil
	}

	if err := retry(ctx, action); err != nil {
		mylogger.Error(ctx, d.logger, "Failed to process event after retries", zap.String("event_id", eventID), zap.Error(err))

		if delErr := d.client.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
			mylogger.Error(ctx, d.logger, "Failed to release event claim", zap.String("event_id", eventID), zap.Error(delErr))
		}

		return fmt.Errorf("failed to process event %s: %w", eventID, err)
	}

	return nil
}

func retry(ctx context.Context, action func() error) error {
	var err error
	for i := 0; i < sendAttempts; i++ {
		if err = action(); err == nil {
			return nil
		}

		if i < sendAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryInterval):
			}
		}
	}
	return err
}
