package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository defines the interface for the server-side session store.
type SessionRepository interface {
	Create(ctx context.Context, session *structs.Session) error
	FindByToken(ctx context.Context, token string) (*structs.Session, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewSessionRepository creates a new session repository instance.
func NewSessionRepository(db *mongo.Database, log *logger.Logger) SessionRepository {
	collection := db.Collection("sessions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique token index plus a TTL index so the store purges sessions
	// past expires_at on its own.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn(ctx, "failed to create session indexes", "error", err)
	}

	return &sessionRepository{
		collection: collection,
		logger:     log,
	}
}

// Create persists a new session record.
func (r *sessionRepository) Create(ctx context.Context, session *structs.Session) error {
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		r.logger.Error(ctx, "failed to create session", "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByToken retrieves a session by its opaque token.
func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*structs.Session, error) {
	var session structs.Session
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find session", "error", err)
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

// Delete destroys a session record. Deleting an absent token is a no-op
// success, so logout stays idempotent.
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		r.logger.Error(ctx, "failed to delete session", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
