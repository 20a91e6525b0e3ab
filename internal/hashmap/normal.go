package hashmap

import "sync"

// NormalMap implements the Map interface by guarding the builtin map type with a RWMutex.
// Reads only take the read lock, so a map that is mostly read (like a per-type cache) does not serialize readers.
type NormalMap[K comparable, V any] struct {
	mtx        sync.RWMutex
	underlying map[K]V
}

var _ Map[int, any] = (*NormalMap[int, any])(nil)

// NewNormal creates a new thread safe map
func NewNormal[K comparable, V any]() *NormalMap[K, V] {
	return &NormalMap[K, V]{
		underlying: make(map[K]V),
	}
}

// Size returns the amount of stored key-value pairs
func (obj *NormalMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return len(obj.underlying)
}

// Lookup returns the value assigned to the given key and whether it was present
func (obj *NormalMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	val, ok := obj.underlying[key]
	return val, ok
}

// LoadOrCompute returns the value assigned to the given key, computing and storing it first if it is absent.
// Concurrent callers racing on the same absent key observe a single compute call.
func (obj *NormalMap[K, V]) LoadOrCompute(key K, compute func() V) V {
	if val, ok := obj.Lookup(key); ok {
		return val
	}

	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	if val, ok := obj.underlying[key]; ok {
		return val
	}
	val := compute()
	obj.underlying[key] = val
	return val
}

// Set sets a key-value pair
func (obj *NormalMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying[key] = value
}

// Unset deletes the value assigned to given key
func (obj *NormalMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	delete(obj.underlying, key)
}

// Clear removes every key-value pair
func (obj *NormalMap[K, V]) Clear() {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying = make(map[K]V)
}

// removeIf deletes every pair the predicate reports true for and returns the amount of deleted pairs
func (obj *NormalMap[K, V]) removeIf(predicate func(key K, value V) bool) int {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	n := 0
	for key, val := range obj.underlying {
		if predicate(key, val) {
			delete(obj.underlying, key)
			n++
		}
	}
	return n
}
