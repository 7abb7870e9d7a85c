package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seedUser(t, "ann@example.com", domain.RoleCustomer)

	updated, err := e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{
		Name:     ptr("Ann B."),
		Email:    ptr("ANN.B@example.com"),
		Password: ptr("new-secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", updated.Name)
	assert.Equal(t, "ann.b@example.com", updated.Email)
	assert.Equal(t, domain.RoleCustomer, updated.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-secret")))

	profile, err := e.userService.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann.b@example.com", profile.Email)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seedUser(t, "ann@example.com", domain.RoleCustomer)
	e.seedUser(t, "bob@example.com", domain.RoleCustomer)

	_, err := e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{Email: ptr("bob@example.com")})
	require.ErrorIs(t, err, repository.ErrUserAlreadyExists)

	_, err = e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{Password: ptr("123")})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestUser_BlankNamesRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seedUser(t, "ann@example.com", domain.RoleCustomer)

	_, err := e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{Name: ptr("   ")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = e.userService.Update(ctx, u.ID, &domain.UpdateUserInput{Name: ptr("\t ")})
	require.ErrorIs(t, err, service.ErrValidation)

	stored, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Name, stored.Name)

	_, err = e.userService.Create(ctx, &domain.RegisterInput{Name: "   ", Email: "sam@example.com", Password: "secret1"})
	require.ErrorIs(t, err, service.ErrValidation)

	updated, err := e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{Name: ptr("  Ann B.  ")})
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", updated.Name)
}

func TestUser_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seedUser(t, "ann@example.com", domain.RoleCustomer)

	_, err := e.userService.UpdateProfile(ctx, u.ID, &domain.UpdateProfileInput{Password: ptr(strings.Repeat("a", 73))})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = e.userService.Create(ctx, &domain.RegisterInput{Name: "Sam", Email: "sam@example.com", Password: strings.Repeat("é", 40)})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestUserAdminCRUD(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	created, err := e.userService.Create(ctx, &domain.RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, created.Role)

	promoted, err := e.userService.Update(ctx, created.ID, &domain.UpdateUserInput{Role: ptr(domain.RoleSupplier)})
	require.NoError(t, err)
	assert.True(t, promoted.IsSupplier())

	list, err := e.userService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.userService.Delete(ctx, created.ID))
	require.ErrorIs(t, e.userService.Delete(ctx, created.ID), repository.ErrUserNotFound)

	_, err = e.userService.Get(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}
