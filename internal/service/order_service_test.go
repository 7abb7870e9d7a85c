package service_test

import (
	"context"
	"testing"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func orderInput() *domain.CreateOrderInput {
	return &domain.CreateOrderInput{
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: 2, Price: 10},
			{ProductID: 2, Quantity: 1, Price: 5.5},
		},
	}
}

func TestOrderCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)

	order, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)

	assert.Equal(t, owner.ID, order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentMethodCard, order.PaymentMethod)
	assert.InDelta(t, 25.5, order.Total, 1e-9)
	assert.Equal(t, []string{domain.EventOrderCreated}, e.eventTypes(t))

	in := orderInput()
	in.Total = ptr(20.0)
	in.PaymentMethod = domain.PaymentMethodPaypal
	order, err = e.orderService.Create(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, 20.0, order.Total)
	assert.Equal(t, domain.PaymentMethodPaypal, order.PaymentMethod)
}

func TestOrderCreate_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)

	_, err := e.orderService.Create(ctx, owner, &domain.CreateOrderInput{})
	require.ErrorIs(t, err, service.ErrValidation)

	in := orderInput()
	in.Items[0].Quantity = 0
	_, err = e.orderService.Create(ctx, owner, in)
	require.ErrorIs(t, err, service.ErrValidation)

	in = orderInput()
	in.Items[1].Price = -1
	_, err = e.orderService.Create(ctx, owner, in)
	require.ErrorIs(t, err, service.ErrValidation)

	in = orderInput()
	in.PaymentMethod = "bitcoin"
	_, err = e.orderService.Create(ctx, owner, in)
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestOrderGet_Ownership(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)
	stranger := e.seedUser(t, "stranger@example.com", domain.RoleCustomer)
	supplier := e.seedUser(t, "supplier@example.com", domain.RoleSupplier)

	order, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)

	got, err := e.orderService.Get(ctx, order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = e.orderService.Get(ctx, order.ID, stranger)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = e.orderService.Get(ctx, order.ID, supplier)
	require.NoError(t, err)

	_, err = e.orderService.Get(ctx, primitive.NewObjectID(), stranger)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)
	supplier := e.seedUser(t, "supplier@example.com", domain.RoleSupplier)

	order, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)

	_, err = e.orderService.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped, owner)
	require.ErrorIs(t, err, service.ErrForbidden)

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusDelivered,
		domain.OrderStatusPending,
		domain.OrderStatusCancelled,
		domain.OrderStatusShipped,
	} {
		updated, err := e.orderService.UpdateStatus(ctx, order.ID, status, supplier)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = e.orderService.UpdateStatus(ctx, order.ID, "lost", supplier)
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = e.orderService.UpdateStatus(ctx, primitive.NewObjectID(), domain.OrderStatusShipped, supplier)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)

	events := e.eventTypes(t)
	assert.Len(t, events, 5)
}

func TestOrderListMine_NewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)
	other := e.seedUser(t, "other@example.com", domain.RoleCustomer)

	first, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)
	second, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)
	_, err = e.orderService.Create(ctx, other, orderInput())
	require.NoError(t, err)

	mine, err := e.orderService.ListMine(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := e.orderService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderAdminUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)

	order, err := e.orderService.Create(ctx, owner, orderInput())
	require.NoError(t, err)

	items := []domain.OrderItem{{ProductID: 3, Quantity: 4, Price: 2.5}}
	updated, err := e.orderService.Update(ctx, order.ID, &domain.UpdateOrderInput{
		Items:           &items,
		ShippingAddress: &domain.ShippingAddress{City: "Oslo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Total)
	assert.Equal(t, "Oslo", updated.ShippingAddress.City)
	assert.Equal(t, owner.ID, updated.UserID)

	_, err = e.orderService.Update(ctx, order.ID, &domain.UpdateOrderInput{Status: ptr(domain.OrderStatus("lost"))})
	require.ErrorIs(t, err, service.ErrValidation)

	require.NoError(t, e.orderService.Delete(ctx, order.ID))
	_, err = e.orders.GetByID(ctx, order.ID)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}
