package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService interface {
	Profile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *domain.UpdateProfileInput) (*domain.User, error)

	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Create(ctx context.Context, input *domain.RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, input *domain.UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type userService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, validate *validator.Validate, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
		logger:   logger,
	}
}

func (s *userService) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile never touches the role: a user cannot promote themselves.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *domain.UpdateProfileInput) (*domain.User, error) {
	return s.Update(ctx, userID, &domain.UpdateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, input *domain.RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validate(s.validate, input); err != nil {
		return nil, err
	}

	hashedPass, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPass,
		Role:     input.Role,
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "User created", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (s *userService) Update(ctx context.Context, id primitive.ObjectID, input *domain.UpdateUserInput) (*domain.User, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := validate(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashedPass, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPass
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "User updated", zap.String("user_id", id.Hex()))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	mylogger.Info(ctx, s.logger, "User deleted", zap.String("user_id", id.Hex()))
	return nil
}
