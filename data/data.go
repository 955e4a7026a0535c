// Package data manages the MongoDB connection for the membership site.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/members/config"
	"github.com/ncobase/members/data/repository"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client      *mongo.Client
	db          *mongo.Database
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// New creates a new Data instance with a MongoDB connection.
func New(cfg *config.MongoDB, log *logger.Logger) (*Data, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info(ctx, "Connected to MongoDB successfully", "database", cfg.Database)

	db := client.Database(cfg.Database)

	return &Data{
		client:      client,
		db:          db,
		UserRepo:    repository.NewUserRepository(db, log),
		SessionRepo: repository.NewSessionRepository(db, log),
	}, nil
}

// Health verifies the MongoDB connection is alive.
func (d *Data) Health(ctx context.Context) error {
	if err := d.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// DB returns the MongoDB database instance.
func (d *Data) DB() *mongo.Database {
	return d.db
}
