package service

import (
	"context"

	"github.com/ncobase/members/data/repository"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
)

// UserService handles directory operations exposed to the admin panel.
type UserService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, log *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   log,
	}
}

// ListUsers returns all users ordered by creation time.
func (s *UserService) ListUsers(ctx context.Context) ([]*structs.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*structs.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// Promote grants the admin role to the target user. Promoting an admin is a
// no-op success. Already-issued sessions keep their cached role until the
// user's next login.
func (s *UserService) Promote(ctx context.Context, id string) (*structs.User, error) {
	return s.userRepo.UpdateRole(ctx, id, structs.RoleAdmin)
}

// Demote reverts the target user to the plain role. Demoting a plain user is
// a no-op success.
func (s *UserService) Demote(ctx context.Context, id string) (*structs.User, error) {
	return s.userRepo.UpdateRole(ctx, id, structs.RoleUser)
}
