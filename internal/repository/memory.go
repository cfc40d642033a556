package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/models"
)

// memoryRepository is the in-memory Repository implementation. It mirrors
// the Postgres implementation's semantics exactly so the core stays
// storage-agnostic; it backs local development and tests.
type memoryRepository struct {
	instance *memoryInstanceRepository
	user     *memoryUserRepository
}

// NewMemoryRepository creates a repository backed by in-process maps.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		instance: &memoryInstanceRepository{instances: make(map[string]*models.Instance)},
		user:     &memoryUserRepository{users: make(map[string]*models.User)},
	}
}

func (r *memoryRepository) Instance() InstanceRepository { return r.instance }
func (r *memoryRepository) User() UserRepository         { return r.user }
func (r *memoryRepository) Ping() error                  { return nil }

type memoryInstanceRepository struct {
	mu        sync.RWMutex
	instances map[string]*models.Instance
}

func (r *memoryInstanceRepository) Create(_ context.Context, instance *models.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	instance.CreatedAt = now
	instance.UpdatedAt = now
	cp := *instance
	r.instances[instance.ID] = &cp
	return nil
}

func (r *memoryInstanceRepository) GetByID(_ context.Context, id string) (*models.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[id]
	if !ok {
		return nil, nil
	}
	cp := *instance
	return &cp, nil
}

func (r *memoryInstanceRepository) GetByExternalID(_ context.Context, externalID string) (*models.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, instance := range r.instances {
		if instance.ExternalID == externalID {
			cp := *instance
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryInstanceRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var instances []*models.Instance
	for _, instance := range r.instances {
		if instance.OwnerID == ownerID {
			cp := *instance
			instances = append(instances, &cp)
		}
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].CreatedAt.Before(instances[j].CreatedAt)
	})
	return instances, nil
}

func (r *memoryInstanceRepository) ListAll(_ context.Context) ([]*models.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var instances []*models.Instance
	for _, instance := range r.instances {
		cp := *instance
		instances = append(instances, &cp)
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].CreatedAt.Before(instances[j].CreatedAt)
	})
	return instances, nil
}

func (r *memoryInstanceRepository) UpdateState(_ context.Context, id string, state domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, ok := r.instances[id]
	if !ok {
		return domain.ErrNotFound
	}
	instance.State = state
	instance.UpdatedAt = time.Now()
	return nil
}

func (r *memoryInstanceRepository) UpdateName(_ context.Context, id string, customName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, ok := r.instances[id]
	if !ok {
		return domain.ErrNotFound
	}
	instance.CustomName = customName
	instance.UpdatedAt = time.Now()
	return nil
}

func (r *memoryInstanceRepository) UpdateSettings(_ context.Context, id string, settings models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, ok := r.instances[id]
	if !ok {
		return domain.ErrNotFound
	}
	instance.Settings = settings
	instance.UpdatedAt = time.Now()
	return nil
}

func (r *memoryInstanceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.instances, id)
	return nil
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func (r *memoryUserRepository) Upsert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *memoryUserRepository) UpdateTokens(_ context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.AccessToken = accessToken
	user.RefreshToken = refreshToken
	user.ExpiresAt = expiresAt
	user.UpdatedAt = time.Now()
	return nil
}
