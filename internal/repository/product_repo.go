package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductRepository interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, category domain.Category) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	DeleteByID(ctx context.Context, id int64) (*domain.Product, error)
}

type productRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(db *mongo.Database, logger *zap.Logger) ProductRepository {
	return &productRepo{
		coll:   db.Collection("products"),
		logger: logger,
		tracer: otel.Tracer("contract/product_repo"),
	}
}

// NextID returns the largest stored id plus one, or 1 for an empty catalog.
// Two callers may get the same value; the unique index on id rejects the
// second Create with ErrDuplicateProductID.
func (r *productRepo) NextID(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.NextID")
	defer span.End()

	opts := options.FindOne().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetProjection(bson.M{"id": 1})

	var last domain.Product
	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("error reading last product id: %w", err)
	}

	return last.ID + 1, nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", product.ID),
		attribute.String("category", string(product.Category)),
	)

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateProductID
		}

		span.RecordError(err)
		mylogger.Error(
			ctx,
			r.logger,
			"Failed to insert product",
			zap.Int64("id", product.ID),
			zap.Error(err),
		)

		return fmt.Errorf("error inserting product: %w", err)
	}

	product.ObjectID = objectID(res.InsertedID)
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error finding product: %w", err)
	}

	return &product, nil
}

// List returns every product, or only those of category when it is set.
func (r *productRepo) List(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
		span.SetAttributes(attribute.String("category", string(category)))
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to list products", zap.Error(err))

		return nil, fmt.Errorf("error listing products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]domain.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error decoding products: %w", err)
	}

	span.SetAttributes(attribute.Int("result_count", len(products)))
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", product.ID),
	)

	product.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":       product.Title,
		"category":    product.Category,
		"description": product.Description,
		"oldPrice":    product.OldPrice,
		"newPrice":    product.NewPrice,
		"discount":    product.Discount,
		"rating":      product.Rating,
		"popularWith": product.PopularWith,
		"image":       product.Image,
		"colors":      product.Colors,
		"sizes":       product.Sizes,
		"stock":       product.Stock,
		"tags":        product.Tags,
		"updatedAt":   product.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": product.ID}, update)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update product",
			zap.Int64("id", product.ID),
			zap.Error(err),
		)

		return fmt.Errorf("error updating product: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) DeleteByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	var product domain.Product
	err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			mylogger.Warn(ctx, r.logger, "Product not found", zap.Int64("product_id", id))
			return nil, ErrProductNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error deleting product: %w", err)
	}

	return &product, nil
}
