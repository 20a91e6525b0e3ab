package user

import (
	"context"
	"errors"
)

var ErrEmailTaken = errors.New("a user with this email address already exists")

// Repository defines the user repository API
type Repository interface {
	// List retrieves all users in creation order
	List(ctx context.Context) ([]*User, error)

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by their (normalized) email address
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create creates a new user.
	// Returns ErrEmailTaken if the email address is already in use.
	Create(ctx context.Context, create *Create) (*User, error)

	// Update updates an existing user and returns the new state, or nil if the user does not exist.
	// Returns ErrEmailTaken if the email address is changed to one already in use.
	Update(ctx context.Context, id string, update *Update) (*User, error)

	// Delete deletes a user by their ID
	Delete(ctx context.Context, id string) error
}

// Create is used to create a new user
type Create struct {
	Name         string
	Age          int
	Email        string
	PasswordHash string
	Roles        RoleSet
}

// Update is used to update an existing user
type Update struct {
	Name         *string
	Age          *int
	Email        *string
	PasswordHash *string
	Roles        *RoleSet
}

// Apply applies the update to a copy of the given user
func (update *Update) Apply(obj *User) *User {
	cpy := obj.Clone()
	if update.Name != nil {
		cpy.Name = *update.Name
	}
	if update.Age != nil {
		cpy.Age = *update.Age
	}
	if update.Email != nil {
		cpy.Email = NormalizeEmail(*update.Email)
	}
	if update.PasswordHash != nil {
		cpy.PasswordHash = *update.PasswordHash
	}
	if update.Roles != nil {
		cpy.Roles = update.Roles.String()
	}
	return cpy
}

// Empty reports whether the update would not change anything
func (update *Update) Empty() bool {
	return update.Name == nil && update.Age == nil && update.Email == nil && update.PasswordHash == nil && update.Roles == nil
}
