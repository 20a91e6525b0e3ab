package revocation

import (
	"context"
	"github.com/hashicorp/go-memdb"
	"time"
)

const tableRevocations = "revocations"

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableRevocations: {
			Name: tableRevocations,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "TokenID"},
				},
			},
		},
	},
}

// Revocation represents a token that must no longer be accepted until it expires on its own
type Revocation struct {
	TokenID string
	Expires time.Time
}

// Store represents the in-memory token revocation list built using hashicorp/go-memdb
type Store struct {
	db  *memdb.MemDB
	now func() time.Time
}

// New creates a new empty revocation store
func New() (*Store, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Revoke revokes the token with the given ID until the given expiry
func (store *Store) Revoke(_ context.Context, tokenID string, expires time.Time) error {
	txn := store.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableRevocations, &Revocation{
		TokenID: tokenID,
		Expires: expires,
	}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// IsRevoked checks whether the token with the given ID has been revoked
func (store *Store) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	txn := store.db.Txn(false)
	obj, err := txn.First(tableRevocations, "id", tokenID)
	if err != nil {
		return false, err
	}
	return obj != nil, nil
}

// PurgeExpired removes all revocations of tokens that expired on their own and returns their amount
func (store *Store) PurgeExpired(_ context.Context) (int, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(tableRevocations, "id")
	if err != nil {
		return 0, err
	}

	now := store.now()
	var expired []*Revocation
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rev := obj.(*Revocation)
		if !rev.Expires.After(now) {
			expired = append(expired, rev)
		}
	}
	for _, rev := range expired {
		if err := txn.Delete(tableRevocations, rev); err != nil {
			return 0, err
		}
	}

	txn.Commit()
	return len(expired), nil
}
