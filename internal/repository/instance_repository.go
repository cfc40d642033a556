package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/models"
)

type instanceRepository struct {
	db *sqlx.DB
}

func NewInstanceRepository(db *sqlx.DB) InstanceRepository {
	return &instanceRepository{
		db: db,
	}
}

// Create inserts a new instance record.
func (r *instanceRepository) Create(ctx context.Context, instance *models.Instance) error {
	query := `
		INSERT INTO instances (id, external_id, api_token, owner_id, custom_name, state, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	instance.CreatedAt = now
	instance.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		instance.ID, instance.ExternalID, instance.APIToken, instance.OwnerID,
		instance.CustomName, instance.State, instance.Settings, now, now)
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	return nil
}

// GetByID retrieves an instance by its surrogate key. Unknown keys return
// (nil, nil).
func (r *instanceRepository) GetByID(ctx context.Context, id string) (*models.Instance, error) {
	query := `
		SELECT id, external_id, api_token, owner_id, custom_name, state, settings, created_at, updated_at
		FROM instances
		WHERE id = $1
	`

	var instance models.Instance
	err := r.db.GetContext(ctx, &instance, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instance by id: %w", err)
	}

	return &instance, nil
}

// GetByExternalID retrieves an instance by the gateway's identifier.
func (r *instanceRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Instance, error) {
	query := `
		SELECT id, external_id, api_token, owner_id, custom_name, state, settings, created_at, updated_at
		FROM instances
		WHERE external_id = $1
	`

	var instance models.Instance
	err := r.db.GetContext(ctx, &instance, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instance by external id: %w", err)
	}

	return &instance, nil
}

// ListByOwner retrieves every instance of one tenant.
func (r *instanceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Instance, error) {
	query := `
		SELECT id, external_id, api_token, owner_id, custom_name, state, settings, created_at, updated_at
		FROM instances
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	var instances []*models.Instance
	err := r.db.SelectContext(ctx, &instances, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	return instances, nil
}

// ListAll retrieves every stored instance.
func (r *instanceRepository) ListAll(ctx context.Context) ([]*models.Instance, error) {
	query := `
		SELECT id, external_id, api_token, owner_id, custom_name, state, settings, created_at, updated_at
		FROM instances
		ORDER BY created_at ASC
	`

	var instances []*models.Instance
	err := r.db.SelectContext(ctx, &instances, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all instances: %w", err)
	}

	return instances, nil
}

// UpdateState writes a new connection state. Last writer wins; the only
// concurrent writers are the webhook handler and the reconciler, both of
// which write absolute ground truth.
func (r *instanceRepository) UpdateState(ctx context.Context, id string, state domain.State) error {
	query := `UPDATE instances SET state = $2, updated_at = $3 WHERE id = $1`

	return r.exec(ctx, "update instance state", query, id, state, time.Now())
}

// UpdateName changes the display label.
func (r *instanceRepository) UpdateName(ctx context.Context, id string, customName string) error {
	query := `UPDATE instances SET custom_name = $2, updated_at = $3 WHERE id = $1`

	return r.exec(ctx, "update instance name", query, id, customName, time.Now())
}

// UpdateSettings replaces the free-form settings blob.
func (r *instanceRepository) UpdateSettings(ctx context.Context, id string, settings models.Settings) error {
	query := `UPDATE instances SET settings = $2, updated_at = $3 WHERE id = $1`

	return r.exec(ctx, "update instance settings", query, id, settings, time.Now())
}

// Delete removes an instance record.
func (r *instanceRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM instances WHERE id = $1`

	return r.exec(ctx, "delete instance", query, id)
}

func (r *instanceRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return nil
}
