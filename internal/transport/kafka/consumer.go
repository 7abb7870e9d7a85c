package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/kafka"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

type Consumer struct {
	service *service.NotificationService
	groupID string
	logger  *zap.Logger
}

func NewConsumer(service *service.NotificationService, groupID string, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: service,
		groupID: groupID,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) error {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		c.groupID,
		[]string{domain.TopicUserEvents, domain.TopicOrderEvents},
		c.ProcessMessage,
		c.logger,
	)

	return consumerGroup.Run(ctx)
}

type eventWrapper struct {
	Event   string          `json:"event"`
	EventID string          `json:"event_id"`
	Payload json.RawMessage `json:"payload"`
}

// ProcessMessage dispatches one message. Malformed messages are logged and
// acknowledged. Handler failures are returned and the message is left
// unmarked, but a later success on the partition commits past it.
func (c *Consumer) ProcessMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	mylogger.Debug(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	var wrapper eventWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		mylogger.Error(ctx, c.logger, "Error unmarshalling wrapper", zap.Error(err))
		return nil
	}

	var err error
	switch wrapper.Event {
	case domain.EventUserRegistered:
		var event domain.UserRegisteredEvent
		if c.decode(ctx, wrapper, &event) {
			err = c.service.HandleUserRegistered(ctx, wrapper.EventID, event)
		}
	case domain.EventOrderCreated:
		var event domain.OrderCreatedEvent
		if c.decode(ctx, wrapper, &event) {
			err = c.service.HandleOrderCreated(ctx, wrapper.EventID, event)
		}
	case domain.EventOrderStatusChanged:
		var event domain.OrderStatusChangedEvent
		if c.decode(ctx, wrapper, &event) {
			err = c.service.HandleOrderStatusChanged(ctx, wrapper.EventID, event)
		}
	default:
		mylogger.Debug(ctx, c.logger, "Ignored event type", zap.String("event", wrapper.Event))
	}

	if errors.Is(err, repository.ErrUserNotFound) {
		mylogger.Warn(ctx, c.logger, "Recipient no longer exists", zap.String("event_id", wrapper.EventID))
		return nil
	}
	if err != nil {
		mylogger.Error(
			ctx,
			c.logger,
			"Error processing event",
			zap.String("event", wrapper.Event),
			zap.String("event_id", wrapper.EventID),
			zap.Error(err),
		)
	}

	return err
}

func (c *Consumer) decode(ctx context.Context, wrapper eventWrapper, dst any) bool {
	if wrapper.EventID == "" {
		mylogger.Error(ctx, c.logger, "Event without id", zap.String("event", wrapper.Event))
		return false
	}

	if err := json.Unmarshal(wrapper.Payload, dst); err != nil {
		mylogger.Error(ctx, c.logger, "Error parsing event", zap.String("event", wrapper.Event), zap.Error(err))
		return false
	}

	return true
}
