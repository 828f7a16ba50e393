package services

import (
	"context"
	"strings"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RegisterUserInput is the data accepted when registering a user.
type RegisterUserInput struct {
	Name  string
	Email string
	Phone string
	Role  models.UserRole
}

// UserService registers and looks up users.
type UserService struct {
	users  UserStore
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger, now: time.Now}
}

// Register creates a user with zero points and no badges. An empty role
// defaults to community.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleCommunity
	}
	if !role.Valid() {
		return nil, apperrors.Validation("role must be one of community, NGO, admin")
	}

	user := &models.User{
		Name:      name,
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      role,
		Points:    0,
		Badges:    []string{},
		CreatedAt: s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeInternal {
			s.logger.Error("Error inserting user", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeInternal {
			s.logger.Error("Error retrieving user", zap.String("user_id", id.Hex()), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}
