package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/members/config"
	"github.com/ncobase/members/data/repository"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
	loggerConfig "github.com/ncobase/ncore/logging/logger/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	cleanup, err := logger.New(&loggerConfig.Config{
		Level:  4,
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	t.Cleanup(cleanup)

	return logger.StdLogger()
}

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// semantics as the mongo implementation.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*structs.User
	seq     int
	failure error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*structs.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *structs.User) (*structs.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failure != nil {
		return nil, f.failure
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, repository.ErrEmailTaken
		}
	}

	f.seq++
	user.ID = primitive.NewObjectID()
	// Strictly increasing timestamps keep List ordering deterministic.
	user.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Microsecond)
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID.Hex()] = &clone
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*structs.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*structs.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*structs.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*structs.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role structs.Role) (*structs.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*structs.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*structs.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *structs.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *session
	f.sessions[session.Token] = &clone
	return nil
}

func (f *fakeSessionRepo) FindByToken(_ context.Context, token string) (*structs.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	cfg := &config.Session{Secret: "test-secret", TTL: time.Hour}
	log := newTestLogger(t)

	svc := &Service{
		Auth: NewAuthService(users, sessions, cfg, log),
		User: NewUserService(users, log),
	}
	return svc, users, sessions
}
