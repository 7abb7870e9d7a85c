package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sentEmail struct {
	kind string
	to   string
	ref  string
}

type fakeSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendWelcomeEmail(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, sentEmail{kind: "welcome", to: to})
	return f.err
}

func (f *fakeSender) SendOrderConfirmationEmail(_ context.Context, to, _, orderID string, _ float64) error {
	f.sent = append(f.sent, sentEmail{kind: "confirmation", to: to, ref: orderID})
	return f.err
}

func (f *fakeSender) SendOrderStatusEmail(_ context.Context, to, _, orderID string, status domain.OrderStatus) error {
	f.sent = append(f.sent, sentEmail{kind: "status:" + string(status), to: to, ref: orderID})
	return f.err
}

// mapDedup is an in-memory stand-in for the Redis deduplicator.
type mapDedup struct {
	seen map[string]bool
}

func (d *mapDedup) Process(_ context.Context, eventID string, action func() error) error {
	if d.seen[eventID] {
		return nil
	}
	if err := action(); err != nil {
		return err
	}
	d.seen[eventID] = true
	return nil
}

func TestNotification_Dedup(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sender := &fakeSender{}
	svc := service.NewNotificationService(sender, &mapDedup{seen: map[string]bool{}}, e.users, zap.NewNop())

	event := domain.UserRegisteredEvent{UserID: "u1", Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, svc.HandleUserRegistered(ctx, "evt-1", event))
	require.NoError(t, svc.HandleUserRegistered(ctx, "evt-1", event))

	require.NoError(t, svc.HandleOrderCreated(ctx, "evt-2", domain.OrderCreatedEvent{OrderID: "o1", Email: "ann@example.com"}))

	assert.Equal(t, []sentEmail{
		{kind: "welcome", to: "ann@example.com"},
		{kind: "confirmation", to: "ann@example.com", ref: "o1"},
	}, sender.sent)
}

func TestNotification_StatusChangedUsesCurrentEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", domain.RoleCustomer)

	sender := &fakeSender{}
	svc := service.NewNotificationService(sender, &mapDedup{seen: map[string]bool{}}, e.users, zap.NewNop())

	err := svc.HandleOrderStatusChanged(ctx, "evt-3", domain.OrderStatusChangedEvent{
		OrderID: "o1",
		UserID:  owner.ID.Hex(),
		From:    domain.OrderStatusPending,
		To:      domain.OrderStatusShipped,
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentEmail{kind: "status:shipped", to: "owner@example.com", ref: "o1"}, sender.sent[0])

	err = svc.HandleOrderStatusChanged(ctx, "evt-4", domain.OrderStatusChangedEvent{
		OrderID: "o2",
		UserID:  primitive.NewObjectID().Hex(),
		To:      domain.OrderStatusShipped,
	})
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestNotification_SendFailureIsReturned(t *testing.T) {
	e := newEnv(t)
	sender := &fakeSender{err: errors.New("ses down")}
	dedup := &mapDedup{seen: map[string]bool{}}
	svc := service.NewNotificationService(sender, dedup, e.users, zap.NewNop())

	err := svc.HandleUserRegistered(context.Background(), "evt-5", domain.UserRegisteredEvent{Email: "x@example.com"})
	require.Error(t, err)
	assert.False(t, dedup.seen["evt-5"])
}
