package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/db"
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

// UserRepository is a read-only view of the user store owned by the auth
// service.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error)
}

type userRepository struct {
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(repo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required: %w", apperr.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, db.NewFilter().Eq("user_id", id).Build())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
		}
		r.logger.Error("user lookup failed", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("get user: %v: %w", err, apperr.ErrPersistence)
	}

	return user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	users, err := r.mongoRepo.FindAll(ctx, db.NewFilter().In("user_id", ids).Build())
	if err != nil {
		r.logger.Error("batch user lookup failed", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("get users: %v: %w", err, apperr.ErrPersistence)
	}

	return users, nil
}
