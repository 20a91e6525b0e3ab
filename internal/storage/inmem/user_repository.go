package inmem

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/user-service/internal/user"
)

// userRecord is the stored form of a user.
// Seq is a zero padded counter so that the lexicographic index order equals the creation order.
type userRecord struct {
	Seq   string
	ID    string
	Email string
	User  *user.User
}

// UserRepository implements the user.Repository interface using go-memdb
type UserRepository struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

var _ user.Repository = (*UserRepository)(nil)

// List retrieves all users in creation order
func (repo *UserRepository) List(_ context.Context) ([]*user.User, error) {
	txn := repo.db.Txn(false)
	it, err := txn.Get(tableUsers, "seq")
	if err != nil {
		return nil, err
	}

	users := []*user.User{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		users = append(users, obj.(*userRecord).User.Clone())
	}
	return users, nil
}

// GetByID retrieves a user by their ID
func (repo *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	return repo.first("id", id)
}

// GetByEmail retrieves a user by their email address
func (repo *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return repo.first("email", user.NormalizeEmail(email))
}

// Create creates a new user
func (repo *UserRepository) Create(_ context.Context, create *user.Create) (*user.User, error) {
	obj := &user.User{
		ID:           uuid.NewString(),
		Name:         create.Name,
		Age:          create.Age,
		Email:        user.NormalizeEmail(create.Email),
		PasswordHash: create.PasswordHash,
		Roles:        create.Roles.String(),
	}
	if create.Roles == user.EmptyRoleSet {
		obj.Roles = user.DefaultRoles
	}

	txn := repo.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableUsers, "email", obj.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrEmailTaken
	}

	record := &userRecord{
		Seq:   fmt.Sprintf("%020d", repo.seq.Add(1)),
		ID:    obj.ID,
		Email: obj.Email,
		User:  obj,
	}
	if err := txn.Insert(tableUsers, record); err != nil {
		return nil, err
	}
	txn.Commit()

	return obj.Clone(), nil
}

// Update updates an existing user
func (repo *UserRepository) Update(_ context.Context, id string, update *user.Update) (*user.User, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "id", id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	old := raw.(*userRecord)
	obj := update.Apply(old.User)

	if obj.Email != old.Email {
		conflict, err := txn.First(tableUsers, "email", obj.Email)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, user.ErrEmailTaken
		}
	}

	// Records are immutable once inserted, so the old one is replaced as a whole
	if err := txn.Delete(tableUsers, old); err != nil {
		return nil, err
	}
	record := &userRecord{
		Seq:   old.Seq,
		ID:    obj.ID,
		Email: obj.Email,
		User:  obj,
	}
	if err := txn.Insert(tableUsers, record); err != nil {
		return nil, err
	}
	txn.Commit()

	return obj.Clone(), nil
}

// Delete deletes a user by their ID
func (repo *UserRepository) Delete(_ context.Context, id string) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(tableUsers, "id", id); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (repo *UserRepository) first(index string, value string) (*user.User, error) {
	txn := repo.db.Txn(false)
	obj, err := txn.First(tableUsers, index, value)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*userRecord).User.Clone(), nil
}
