package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

const productListsKey = "products:lists"

type cachedProductService struct {
	next        ProductService
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCachedProductService(next ProductService, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) ProductService {
	return &cachedProductService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func productListKey(category domain.Category) string {
	if category == "" {
		return "products:all"
	}
	return fmt.Sprintf("products:category:%s", category)
}

func (s *cachedProductService) Add(ctx context.Context, input *domain.AddProductInput) (*domain.Product, error) {
	product, err := s.next.Add(ctx, input)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return product, nil
}

func (s *cachedProductService) Remove(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.next.Remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, productKey(id))
	s.invalidateLists(ctx)
	return product, nil
}

func (s *cachedProductService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.next.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, productKey(id))
	s.invalidateLists(ctx)
	return product, nil
}

func (s *cachedProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	var cached domain.Product
	if s.load(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, product)
	return product, nil
}

func (s *cachedProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.list(ctx, "", func() ([]domain.Product, error) {
		return s.next.List(ctx)
	})
}

func (s *cachedProductService) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	if !category.Valid() {
		return s.next.ListByCategory(ctx, category)
	}

	return s.list(ctx, category, func() ([]domain.Product, error) {
		return s.next.ListByCategory(ctx, category)
	})
}

func (s *cachedProductService) list(ctx context.Context, category domain.Category, fetch func() ([]domain.Product, error)) ([]domain.Product, error) {
	key := productListKey(category)

	var cached []domain.Product
	if s.load(ctx, key, &cached) {
		return cached, nil
	}

	products, err := fetch()
	if err != nil {
		return nil, err
	}

	if s.store(ctx, key, products) {
		s.redisClient.SAdd(ctx, productListsKey, key)
	}
	return products, nil
}

func (s *cachedProductService) load(ctx context.Context, key string, dst any) bool {
	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			mylogger.Warn(ctx, s.logger, "Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(val, dst); err != nil {
		mylogger.Warn(ctx, s.logger, "Cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

func (s *cachedProductService) store(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}

	if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		mylogger.Warn(ctx, s.logger, "Cache write failed", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// invalidateLists drops every cached list, since any write can change any of them.
func (s *cachedProductService) invalidateLists(ctx context.Context) {
	keys, err := s.redisClient.SMembers(ctx, productListsKey).Result()
	if err != nil {
		mylogger.Warn(ctx, s.logger, "Cache invalidation failed", zap.Error(err))
		return
	}

	s.redisClient.Del(ctx, append(keys, productListsKey)...)
}
