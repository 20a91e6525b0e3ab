package cache

import (
	"context"
	"github.com/skybi/user-service/internal/hashmap"
	"github.com/skybi/user-service/internal/storage"
	"github.com/skybi/user-service/internal/user"
	"time"
)

const cleanupInterval = 10 * time.Second

// Driver represents a storage driver implementation that wraps another one in order to implement in-memory caching
type Driver struct {
	underlying storage.Driver
	lifetime   time.Duration
	users      *UserRepository
}

var _ storage.Driver = (*Driver)(nil)

// New returns a new caching storage driver whose entries live for the given lifetime
func New(underlying storage.Driver, lifetime time.Duration) *Driver {
	return &Driver{
		underlying: underlying,
		lifetime:   lifetime,
	}
}

// Initialize initializes the caching repositories.
// The underlying driver has to be initialized beforehand.
func (driver *Driver) Initialize(_ context.Context) error {
	userCache := hashmap.NewExpiring[string, *user.User](driver.lifetime)
	userCache.ScheduleCleanupTask(cleanupInterval)
	driver.users = &UserRepository{
		repo:  driver.underlying.Users(),
		cache: userCache,
	}
	return nil
}

// Users provides the caching user repository implementation
func (driver *Driver) Users() user.Repository {
	return driver.users
}

// Close closes the caching repositories and the underlying driver
func (driver *Driver) Close() {
	if driver.users != nil {
		driver.users.cache.StopCleanupTask()
		driver.users = nil
	}
	driver.underlying.Close()
}
