package cache

import (
	"context"
	"github.com/skybi/user-service/internal/hashmap"
	"github.com/skybi/user-service/internal/user"
)

// UserRepository implements the user.Repository interface in order to implement caching.
// Users are cached by their ID; listing and email lookups always reach the underlying repository.
type UserRepository struct {
	repo  user.Repository
	cache *hashmap.ExpiringMap[string, *user.User]
}

var _ user.Repository = (*UserRepository)(nil)

// List retrieves all users in creation order
func (repo *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	users, err := repo.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, obj := range users {
		repo.cache.Set(obj.ID, obj.Clone())
	}
	return users, nil
}

// GetByID retrieves a user by their ID
func (repo *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	cached, ok := repo.cache.Lookup(id)
	if ok {
		return cached.Clone(), nil
	}
	obj, err := repo.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj.Clone())
	}
	return obj, nil
}

// GetByEmail retrieves a user by their email address
func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	obj, err := repo.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj.Clone())
	}
	return obj, nil
}

// Create creates a new user
func (repo *UserRepository) Create(ctx context.Context, create *user.Create) (*user.User, error) {
	obj, err := repo.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	repo.cache.Set(obj.ID, obj.Clone())
	return obj, nil
}

// Update updates an existing user
func (repo *UserRepository) Update(ctx context.Context, id string, update *user.Update) (*user.User, error) {
	obj, err := repo.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		repo.cache.Unset(id)
		return nil, nil
	}
	repo.cache.Set(obj.ID, obj.Clone())
	return obj, nil
}

// Delete deletes a user by their ID
func (repo *UserRepository) Delete(ctx context.Context, id string) error {
	err := repo.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	repo.cache.Unset(id)
	return nil
}
