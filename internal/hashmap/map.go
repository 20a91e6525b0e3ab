package hashmap

// Map is implemented by every map of this package
type Map[K comparable, V any] interface {
	// Size returns the amount of stored key-value pairs
	Size() int

	// Lookup returns the value assigned to the given key and whether it was present
	Lookup(key K) (V, bool)

	// LoadOrCompute returns the value assigned to the given key.
	// If the key is absent, compute is called exactly once under the write lock and its result is stored.
	LoadOrCompute(key K, compute func() V) V

	// Set sets a key-value pair
	Set(key K, value V)

	// Unset deletes the value assigned to given key
	Unset(key K)

	// Clear removes every key-value pair
	Clear()
}
