package syncmap

import "sync"

// Map is a thread-safe generic map keyed by name.
type Map[T any] struct {
	mux sync.RWMutex
	m   map[string]T
}

// New creates an empty Map.
func New[T any]() *Map[T] {
	return &Map[T]{m: make(map[string]T)}
}

// Get retrieves an item by name, returning the zero value when absent.
func (r *Map[T]) Get(name string) T {
	v, _ := r.Lookup(name)
	return v
}

// Lookup retrieves an item by name and reports whether it was present.
func (r *Map[T]) Lookup(name string) (T, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[name]
	return v, ok
}

// Set adds or updates an item by name.
func (r *Map[T]) Set(name string, value T) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.m[name] = value
}

// SetIfAbsent stores value unless name is already present. It returns the
// value held after the call and whether it was stored.
func (r *Map[T]) SetIfAbsent(name string, value T) (T, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if existing, ok := r.m[name]; ok {
		return existing, false
	}
	r.m[name] = value
	return value, true
}

// Delete removes an item by name.
func (r *Map[T]) Delete(name string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.m, name)
}

// Keys returns all names in unspecified order.
func (r *Map[T]) Keys() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]string, 0, len(r.m))
	for k := range r.m {
		ret = append(ret, k)
	}
	return ret
}

// Len returns the number of stored items.
func (r *Map[T]) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.m)
}
