package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"github.com/sakashimaa/shop-api/pkg/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AuthService interface {
	Register(ctx context.Context, input *domain.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, input *domain.LoginInput) (*domain.User, string, error)
	Authenticate(ctx context.Context, tokenString string) (*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	events   eventRecorder
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *token.Manager,
	outboxRepo worker.OutboxRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		events:   eventRecorder{outboxRepo: outboxRepo, logger: logger},
		validate: validate,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, input *domain.RegisterInput) (*domain.User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validate(s.validate, input); err != nil {
		return nil, "", err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	hashedPass, err := hashPassword(input.Password)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error hashing password", zap.Error(err))
		return nil, "", err
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPass,
		Role:     role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	tokenString, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error signing token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return nil, "", err
	}

	mylogger.Info(ctx, s.logger, "User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(role)))

	s.events.record(ctx, domain.TopicUserEvents, "User", user.ID.Hex(),
		domain.EventUserRegistered, domain.UserRegisteredEvent{
			UserID: user.ID.Hex(),
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		})

	return user, tokenString, nil
}

func (s *authService) Login(ctx context.Context, input *domain.LoginInput) (*domain.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validate(s.validate, input); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			mylogger.Warn(ctx, s.logger, "Login with unknown email")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		mylogger.Warn(ctx, s.logger, "Login with wrong password", zap.String("user_id", user.ID.Hex()))
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, tokenString, nil
}

// Authenticate resolves a bearer token to its user. Every failure, including
// a deleted user, is reported as ErrUnauthorized.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", NewValidationError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
