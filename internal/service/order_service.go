package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type OrderService interface {
	Create(ctx context.Context, caller *domain.User, input *domain.CreateOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
	Get(ctx context.Context, id primitive.ObjectID, caller *domain.User) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus, caller *domain.User) (*domain.Order, error)

	List(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, input *domain.UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	events    eventRecorder
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	outboxRepo worker.OutboxRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		events:    eventRecorder{outboxRepo: outboxRepo, logger: logger},
		validate:  validate,
		logger:    logger,
	}
}

func (s *orderService) Create(ctx context.Context, caller *domain.User, input *domain.CreateOrderInput) (*domain.Order, error) {
	if err := validate(s.validate, input); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          caller.ID,
		Items:           input.Items,
		Status:          domain.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.PaymentMethodCard
	}
	if input.Total != nil {
		order.Total = *input.Total
	} else {
		order.CalculateTotal()
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", caller.ID.Hex()),
		zap.Float64("total", order.Total),
	)

	s.events.record(ctx, domain.TopicOrderEvents, "Order", order.ID.Hex(),
		domain.EventOrderCreated, domain.OrderCreatedEvent{
			OrderID: order.ID.Hex(),
			UserID:  caller.ID.Hex(),
			Email:   caller.Email,
			Name:    caller.Name,
			Total:   order.Total,
			Items:   len(order.Items),
			At:      order.CreatedAt,
		})

	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// Get returns ErrOrderNotFound before any ownership check, so a missing order
// is a 404 for everyone.
func (s *orderService) Get(ctx context.Context, id primitive.ObjectID, caller *domain.User) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != caller.ID && !caller.IsSupplier() {
		mylogger.Warn(
			ctx,
			s.logger,
			"Order access denied",
			zap.String("order_id", id.Hex()),
			zap.String("user_id", caller.ID.Hex()),
		)

		return nil, ErrForbidden
	}

	return order, nil
}

// UpdateStatus accepts any status from any state.
func (s *orderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus, caller *domain.User) (*domain.Order, error) {
	if !caller.IsSupplier() {
		mylogger.Warn(ctx, s.logger, "Status change by non-supplier", zap.String("user_id", caller.ID.Hex()))
		return nil, ErrForbidden
	}

	if err := validate(s.validate, &domain.UpdateOrderStatusInput{Status: status}); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = status

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order status changed",
		zap.String("order_id", id.Hex()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)

	if from != status {
		s.events.record(ctx, domain.TopicOrderEvents, "Order", id.Hex(),
			domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
				OrderID: id.Hex(),
				UserID:  order.UserID.Hex(),
				From:    from,
				To:      status,
				At:      time.Now().UTC(),
			})
	}

	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderService) Update(ctx context.Context, id primitive.ObjectID, input *domain.UpdateOrderInput) (*domain.Order, error) {
	if err := validate(s.validate, input); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(order)
	if err := validate(s.validate, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Order updated", zap.String("order_id", id.Hex()))
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.orderRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	mylogger.Info(ctx, s.logger, "Order deleted", zap.String("order_id", id.Hex()))
	return nil
}
