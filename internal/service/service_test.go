package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/repository/memory"
	"github.com/sakashimaa/shop-api/internal/service"
	outboxRepository "github.com/sakashimaa/shop-api/pkg/outbox/repository"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"github.com/sakashimaa/shop-api/pkg/token"
	"github.com/sakashimaa/shop-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	products repository.ProductRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	outbox   worker.OutboxRepository
	tokens   *token.Manager

	productService service.ProductService
	authService    service.AuthService
	userService    service.UserService
	orderService   service.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	tokens, err := token.NewManager("test-secret", 7*24*time.Hour)
	require.NoError(t, err)

	e := &env{
		products: memory.NewProductRepository(),
		users:    memory.NewUserRepository(),
		orders:   memory.NewOrderRepository(),
		outbox:   outboxRepository.NewMemoryOutboxRepository(),
		tokens:   tokens,
	}

	logger := zap.NewNop()
	validate := utils.NewValidator()

	e.productService = service.NewProductService(e.products, e.outbox, validate, logger)
	e.authService = service.NewAuthService(e.users, tokens, e.outbox, validate, logger)
	e.userService = service.NewUserService(e.users, validate, logger)
	e.orderService = service.NewOrderService(e.orders, e.outbox, validate, logger)

	return e
}

// seedUser stores a user directly, skipping the bcrypt cost of Register.
func (e *env) seedUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()

	u := &domain.User{Name: "User " + email, Email: email, Password: "unused", Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) eventTypes(t *testing.T) []string {
	t.Helper()

	events, err := e.outbox.GetUnpublishedEvents(context.Background(), 100)
	require.NoError(t, err)

	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	return types
}

func ptr[T any](v T) *T {
	return &v
}
