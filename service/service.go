// Package service contains the authentication and directory business logic.
package service

import (
	"github.com/ncobase/members/config"
	"github.com/ncobase/members/data"
	"github.com/ncobase/ncore/logging/logger"
)

// Service aggregates all business logic services.
type Service struct {
	Auth *AuthService
	User *UserService
}

// NewService creates a new service instance with all sub-services initialized.
func NewService(d *data.Data, cfg *config.Session, log *logger.Logger) *Service {
	return &Service{
		Auth: NewAuthService(d.UserRepo, d.SessionRepo, cfg, log),
		User: NewUserService(d.UserRepo, log),
	}
}
