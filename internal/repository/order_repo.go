package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type orderRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOrderRepository(db *mongo.Database, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		coll:   db.Collection("orders"),
		tracer: otel.Tracer("contract/order_repo"),
		logger: logger,
	}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", order.UserID.Hex()),
		attribute.Int("items", len(order.Items)),
	)

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to insert order", zap.Error(err))

		return fmt.Errorf("error inserting order: %w", err)
	}

	order.ID = objectID(res.InsertedID)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", id.Hex()))

	var order domain.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error finding order: %w", err)
	}

	return &order, nil
}

func (r *orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	return r.find(ctx, span, bson.M{})
}

// ListByUser returns the orders of userID, newest first.
func (r *orderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID.Hex()))

	return r.find(ctx, span, bson.M{"userId": userID})
}

func (r *orderRepo) find(ctx context.Context, span trace.Span, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", order.ID.Hex()),
		attribute.String("status", string(order.Status)),
	)

	order.UpdatedAt = time.Now().UTC()

	res, err := r.coll.UpdateByID(ctx, order.ID, bson.M{"$set": bson.M{
		"items":           order.Items,
		"total":           order.Total,
		"status":          order.Status,
		"shippingAddress": order.ShippingAddress,
		"paymentMethod":   order.PaymentMethod,
		"updatedAt":       order.UpdatedAt,
	}})
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to update order", zap.String("order_id", order.ID.Hex()), zap.Error(err))

		return fmt.Errorf("error updating order: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", id.Hex()))

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting order: %w", err)
	}

	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}
