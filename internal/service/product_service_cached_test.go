package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/repository/memory"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/testsuite"
	"github.com/sakashimaa/shop-api/pkg/utils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// countingRepo counts reads that reach the store.
type countingRepo struct {
	repository.ProductRepository
	gets  int
	lists int
}

func (r *countingRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.gets++
	return r.ProductRepository.GetByID(ctx, id)
}

func (r *countingRepo) List(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	r.lists++
	return r.ProductRepository.List(ctx, category)
}

type CachedProductSuite struct {
	testsuite.BaseSuite
	repo    *countingRepo
	service service.ProductService
}

func (s *CachedProductSuite) SetupSuite() {
	s.SetupRedis()
}

func (s *CachedProductSuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *CachedProductSuite) SetupTest() {
	s.FlushRedis()

	logger := zap.NewNop()
	s.repo = &countingRepo{ProductRepository: memory.NewProductRepository()}
	next := service.NewProductService(s.repo, nil, utils.NewValidator(), logger)
	s.service = service.NewCachedProductService(next, s.RedisClient, time.Minute, logger)
}

func TestCachedProductSuite(t *testing.T) {
	suite.Run(t, new(CachedProductSuite))
}

func (s *CachedProductSuite) TestGetIsCached() {
	_, err := s.service.Add(s.Ctx, shirt())
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		p, err := s.service.Get(s.Ctx, 1)
		s.Require().NoError(err)
		s.Equal("Shirt", p.Title)
	}
	s.Equal(1, s.repo.gets)
}

func (s *CachedProductSuite) TestUpdateInvalidates() {
	_, err := s.service.Add(s.Ctx, shirt())
	s.Require().NoError(err)

	_, err = s.service.Get(s.Ctx, 1)
	s.Require().NoError(err)
	_, err = s.service.List(s.Ctx)
	s.Require().NoError(err)

	_, err = s.service.Update(s.Ctx, 1, &domain.UpdateProductInput{Title: ptr("Polo")})
	s.Require().NoError(err)

	p, err := s.service.Get(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal("Polo", p.Title)

	all, err := s.service.List(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("Polo", all[0].Title)
}

func (s *CachedProductSuite) TestListsInvalidatedByAddAndRemove() {
	_, err := s.service.Add(s.Ctx, shirt())
	s.Require().NoError(err)

	men, err := s.service.ListByCategory(s.Ctx, domain.CategoryMen)
	s.Require().NoError(err)
	s.Len(men, 1)

	men, err = s.service.ListByCategory(s.Ctx, domain.CategoryMen)
	s.Require().NoError(err)
	s.Len(men, 1)
	s.Equal(1, s.repo.lists)

	_, err = s.service.Add(s.Ctx, shirt())
	s.Require().NoError(err)

	men, err = s.service.ListByCategory(s.Ctx, domain.CategoryMen)
	s.Require().NoError(err)
	s.Len(men, 2)

	_, err = s.service.Remove(s.Ctx, 1)
	s.Require().NoError(err)

	men, err = s.service.ListByCategory(s.Ctx, domain.CategoryMen)
	s.Require().NoError(err)
	s.Len(men, 1)

	_, err = s.service.Get(s.Ctx, 1)
	s.ErrorIs(err, repository.ErrProductNotFound)
}
