package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type userRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *zap.Logger
}

func NewUserRepository(db *mongo.Database, logger *zap.Logger) UserRepository {
	return &userRepo{
		coll:   db.Collection("users"),
		tracer: otel.Tracer("contract/user_repo"),
		logger: logger,
	}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			mylogger.Warn(ctx, r.logger, "User already exists", zap.String("email", user.Email))
			return ErrUserAlreadyExists
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to insert user", zap.Error(err))

		return fmt.Errorf("error inserting user: %w", err)
	}

	user.ID = objectID(res.InsertedID)
	span.SetAttributes(attribute.String("user_id", user.ID.Hex()))

	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id.Hex()))

	return r.findOne(ctx, span, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	return r.findOne(ctx, span, bson.M{"email": email})
}

func (r *userRepo) findOne(ctx context.Context, span trace.Span, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error decoding users: %w", err)
	}

	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", user.ID.Hex()))

	user.UpdatedAt = time.Now().UTC()

	res, err := r.coll.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"password":  user.Password,
		"role":      user.Role,
		"updatedAt": user.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to update user", zap.String("user_id", user.ID.Hex()), zap.Error(err))

		return fmt.Errorf("error updating user: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id.Hex()))

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting user: %w", err)
	}

	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
