package hashmap

import (
	"github.com/skybi/user-service/internal/task"
	"time"
)

type expiringEntry[T any] struct {
	raw      T
	inserted time.Time
}

// ExpiringMap implements the Map interface on top of a NormalMap whose values expire after a fixed lifetime.
// Expired values are never returned; they are physically removed by the cleanup task (see ScheduleCleanupTask).
type ExpiringMap[K comparable, V any] struct {
	normal      *NormalMap[K, *expiringEntry[V]]
	lifetime    time.Duration
	now         func() time.Time
	cleanupTask *task.RepeatingTask
}

var _ Map[int, any] = (*ExpiringMap[int, any])(nil)

// NewExpiring creates a new expiring map whose values exist for a specific lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		normal:   NewNormal[K, *expiringEntry[V]](),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// ScheduleCleanupTask schedules the task that removes expired values in a specific interval.
// StopCleanupTask has to be called as soon as the map is no longer needed.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.RemoveExpired()
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(false)
	obj.cleanupTask = nil
}

// RemoveExpired removes all expired values and returns their amount
func (obj *ExpiringMap[K, V]) RemoveExpired() int {
	return obj.normal.removeIf(func(_ K, val *expiringEntry[V]) bool {
		return obj.expired(val)
	})
}

// Size returns the amount of stored key-value pairs, including expired ones not yet removed
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.normal.Size()
}

// Lookup returns the value assigned to the given key and whether it was present and not yet expired
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := obj.normal.Lookup(key)
	if !ok || obj.expired(val) {
		var zero V
		return zero, false
	}
	return val.raw, true
}

// LoadOrCompute returns the live value assigned to the given key, computing and storing it first if it is absent
func (obj *ExpiringMap[K, V]) LoadOrCompute(key K, compute func() V) V {
	if val, ok := obj.Lookup(key); ok {
		return val
	}
	val := compute()
	obj.Set(key, val)
	return val
}

// Set sets a key-value pair and restarts its lifetime
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.normal.Set(key, &expiringEntry[V]{
		raw:      value,
		inserted: obj.now(),
	})
}

// Unset deletes the value assigned to given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.normal.Unset(key)
}

// Clear removes every key-value pair
func (obj *ExpiringMap[K, V]) Clear() {
	obj.normal.Clear()
}

func (obj *ExpiringMap[K, V]) expired(entry *expiringEntry[V]) bool {
	return obj.now().Sub(entry.inserted) > obj.lifetime
}
