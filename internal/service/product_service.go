package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"go.uber.org/zap"
)

// maxIDAttempts bounds how often Add retries after losing an id race.
const maxIDAttempts = 5

type ProductService interface {
	Add(ctx context.Context, input *domain.AddProductInput) (*domain.Product, error)
	Remove(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	events      eventRecorder
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	outboxRepo worker.OutboxRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		events:      eventRecorder{outboxRepo: outboxRepo, logger: logger},
		validate:    validate,
		logger:      logger,
	}
}

func (s *productService) Add(ctx context.Context, input *domain.AddProductInput) (*domain.Product, error) {
	if err := validate(s.validate, input); err != nil {
		return nil, err
	}

	product := input.ToProduct()

	for attempt := 1; ; attempt++ {
		id, err := s.productRepo.NextID(ctx)
		if err != nil {
			return nil, err
		}
		product.ID = id

		err = s.productRepo.Create(ctx, product)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateProductID) || attempt == maxIDAttempts {
			mylogger.Error(
				ctx,
				s.logger,
				"Failed to create product",
				zap.Int64("product_id", id),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)

			return nil, fmt.Errorf("error creating product: %w", err)
		}

		mylogger.Debug(ctx, s.logger, "Product id taken, retrying", zap.Int64("product_id", id))
	}

	mylogger.Info(ctx, s.logger, "Product created", zap.Int64("product_id", product.ID))

	s.events.record(ctx, domain.TopicProductEvents, "Product", strconv.FormatInt(product.ID, 10),
		domain.EventProductCreated, domain.ProductEvent{
			ProductID: product.ID,
			Title:     product.Title,
			Category:  product.Category,
		})

	return product, nil
}

func (s *productService) Remove(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Product removed", zap.Int64("product_id", id))

	s.events.record(ctx, domain.TopicProductEvents, "Product", strconv.FormatInt(id, 10),
		domain.EventProductRemoved, domain.ProductEvent{
			ProductID: product.ID,
			Title:     product.Title,
			Category:  product.Category,
		})

	return product, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx, "")
}

// ListByCategory returns an empty list for categories outside the enum,
// since no stored product can carry one.
func (s *productService) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	if !category.Valid() {
		return []domain.Product{}, nil
	}

	return s.productRepo.List(ctx, category)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(product)
	if err := validate(s.validate, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Product updated", zap.Int64("product_id", id))
	return product, nil
}
