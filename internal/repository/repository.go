package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db       *sqlx.DB
	instance InstanceRepository
	user     UserRepository
}

// NewRepository creates a Postgres-backed repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:       db,
		instance: NewInstanceRepository(db),
		user:     NewUserRepository(db),
	}
}

// Instance returns the instance registry.
func (r *repositoryImpl) Instance() InstanceRepository {
	return r.instance
}

// User returns the user repository.
func (r *repositoryImpl) User() UserRepository {
	return r.user
}

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
