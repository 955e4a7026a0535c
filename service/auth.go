package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/ncobase/members/config"
	"github.com/ncobase/members/crypto"
	"github.com/ncobase/members/data/repository"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
)

// Opaque session token length in characters.
const sessionTokenLength = 32

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password alike. The two causes are deliberately indistinguishable so
	// the response never reveals whether an email is registered.
	ErrInvalidCredentials = errors.New("credentials not found")

	// ErrSignupRejected collapses duplicate-email and storage failures
	// during signup into one generic outcome. The underlying cause is
	// logged, never surfaced.
	ErrSignupRejected = errors.New("signup rejected")

	// ErrSessionNotFound is returned when a token resolves to no live
	// session.
	ErrSessionNotFound = errors.New("session not found")
)

// AuthService handles the signup/login/logout session lifecycle.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	secret      string
	ttl         time.Duration
	logger      *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Session, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      cfg.Secret,
		ttl:         cfg.TTL,
		logger:      log,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Signup creates a new user with the default role and establishes a session
// bound to it. Email uniqueness is enforced by the storage layer; any insert
// failure comes back as ErrSignupRejected without hinting at the cause.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*structs.Session, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err)
		return nil, ErrSignupRejected
	}

	user, err := s.userRepo.Create(ctx, &structs.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         structs.RoleUser,
	})
	if err != nil {
		s.logger.Warn(ctx, "signup rejected", "error", err)
		return nil, ErrSignupRejected
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "failed to create session after signup", "user_id", user.ID.Hex(), "error", err)
		return nil, ErrSignupRejected
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID.Hex())
	return session, nil
}

// Login verifies the credentials and establishes a session carrying the
// user's current name and role. Unknown email and wrong password yield the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*structs.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(ctx, "login lookup failed", "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !crypto.ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "failed to create session after login", "user_id", user.ID.Hex(), "error", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID.Hex())
	return session, nil
}

// Logout destroys the session record. Logging out an already-dead token is a
// no-op success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// LoadSession resolves a token to its live session. Expired records that the
// store's TTL sweep has not yet purged are destroyed and treated as absent.
func (s *AuthService) LoadSession(ctx context.Context, token string) (*structs.Session, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			s.logger.Warn(ctx, "failed to delete expired session", "error", err)
		}
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *AuthService) createSession(ctx context.Context, user *structs.User) (*structs.Session, error) {
	token, err := gonanoid.New(sessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &structs.Session{
		Token:     token,
		UserID:    user.ID.Hex(),
		UserName:  user.Name,
		UserRole:  user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// SignCookie produces the cookie value for a session token. With a configured
// secret the token is paired with an HMAC so a tampered cookie never reaches
// the store.
func (s *AuthService) SignCookie(token string) string {
	if s.secret == "" {
		return token
	}
	return token + "." + s.sign(token)
}

// ParseCookie validates a cookie value and returns the session token.
func (s *AuthService) ParseCookie(value string) (string, bool) {
	if s.secret == "" {
		return value, value != ""
	}

	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(token))) {
		return "", false
	}
	return token, true
}

func (s *AuthService) sign(token string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
