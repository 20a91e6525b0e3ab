package inmem

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/skybi/user-service/internal/storage"
	"github.com/skybi/user-service/internal/user"
)

const tableUsers = "users"

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableUsers: {
			Name: tableUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "ID"},
				},
				"email": {
					Name:         "email",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
				},
				"seq": {
					Name:         "seq",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Seq"},
				},
			},
		},
	},
}

// Driver represents the in-memory storage driver built using hashicorp/go-memdb.
// Its contents live as long as the process does.
type Driver struct {
	db    *memdb.MemDB
	users *UserRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver.
// Use Initialize to create the database and the repository implementations.
func New() *Driver {
	return &Driver{}
}

// Initialize creates the in-memory database and the repository implementations
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db
	driver.users = &UserRepository{db: db}
	return nil
}

// Users provides the in-memory user repository implementation
func (driver *Driver) Users() user.Repository {
	return driver.users
}

// Close discards the database and its repository implementations
func (driver *Driver) Close() {
	driver.users = nil
	driver.db = nil
}
