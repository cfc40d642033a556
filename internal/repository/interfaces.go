package repository

import (
	"context"
	"time"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks storage connectivity
	Ping() error

	// Instance returns the instance registry
	Instance() InstanceRepository

	// User returns the user repository
	User() UserRepository
}

// InstanceRepository is the registry of WhatsApp instances. It is not
// tenant-scoped: callers must verify OwnerID against the caller before
// trusting any read. Get operations return (nil, nil) for unknown keys;
// updates and deletes on unknown keys return domain.ErrNotFound.
type InstanceRepository interface {
	Create(ctx context.Context, instance *models.Instance) error
	GetByID(ctx context.Context, id string) (*models.Instance, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Instance, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Instance, error)
	// ListAll feeds the background reconciliation sweep.
	ListAll(ctx context.Context) ([]*models.Instance, error)
	UpdateState(ctx context.Context, id string, state domain.State) error
	UpdateName(ctx context.Context, id string, customName string) error
	UpdateSettings(ctx context.Context, id string, settings models.Settings) error
	Delete(ctx context.Context, id string) error
}

// UserRepository stores CRM tenants and their OAuth tokens.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error
}
