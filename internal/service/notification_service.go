package service

import (
	"context"
	"fmt"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/infrastructure/email"
	"github.com/sakashimaa/shop-api/internal/repository"
	outboxUtils "github.com/sakashimaa/shop-api/pkg/outbox/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type NotificationService struct {
	emailSender email.Sender
	dedup       outboxUtils.Deduplicator
	userRepo    repository.UserRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewNotificationService(
	emailSender email.Sender,
	dedup outboxUtils.Deduplicator,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		emailSender: emailSender,
		dedup:       dedup,
		userRepo:    userRepo,
		logger:      logger,
		tracer:      otel.Tracer("notification-service"),
	}
}

func (s *NotificationService) HandleUserRegistered(ctx context.Context, eventID string, event domain.UserRegisteredEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleUserRegistered")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	return s.dedup.Process(ctx, eventID, func() error {
		return s.emailSender.SendWelcomeEmail(ctx, event.Email, event.Name)
	})
}

func (s *NotificationService) HandleOrderCreated(ctx context.Context, eventID string, event domain.OrderCreatedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderCreated")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("order_id", event.OrderID),
	)

	return s.dedup.Process(ctx, eventID, func() error {
		return s.emailSender.SendOrderConfirmationEmail(ctx, event.Email, event.Name, event.OrderID, event.Total)
	})
}

// HandleOrderStatusChanged looks the owner up at delivery time, so the email
// goes to the address the user has now.
func (s *NotificationService) HandleOrderStatusChanged(ctx context.Context, eventID string, event domain.OrderStatusChangedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderStatusChanged")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("order_id", event.OrderID),
	)

	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return fmt.Errorf("malformed user id %q: %w", event.UserID, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.dedup.Process(ctx, eventID, func() error {
		return s.emailSender.SendOrderStatusEmail(ctx, user.Email, user.Name, event.OrderID, event.To)
	})
}
