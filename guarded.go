package assoc

import (
	"sync"
	"unsafe"
)

// Guarded wraps an AssociativeArray with a read-write lock so one
// container can be shared by several goroutines. Every method holds the
// lock for the whole call; reads share it.
//
// The zero value is an empty Guarded ready to use.
type Guarded[K comparable, V any] struct {
	mu  sync.RWMutex
	arr *AssociativeArray[K, V]

	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		mu  sync.RWMutex
		arr unsafe.Pointer
	}{})%CacheLineSize) % CacheLineSize]byte
}

// NewGuarded creates a Guarded around a new AssociativeArray built with
// options.
func NewGuarded[K comparable, V any](options ...func(*ArrayConfig)) *Guarded[K, V] {
	return &Guarded[K, V]{arr: NewAssociativeArray[K, V](options...)}
}

// Set is AssociativeArray.Set under the write lock.
func (g *Guarded[K, V]) Set(key K, value V) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writable().Set(key, value)
}

// Get is AssociativeArray.Get under the read lock.
func (g *Guarded[K, V]) Get(key K) (V, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.array().Get(key)
}

// HasKey is AssociativeArray.HasKey under the read lock.
func (g *Guarded[K, V]) HasKey(key K) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.array().HasKey(key)
}

// Remove is AssociativeArray.Remove under the write lock.
func (g *Guarded[K, V]) Remove(key K) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writable().Remove(key)
}

// Size is AssociativeArray.Size under the read lock.
func (g *Guarded[K, V]) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.array().Size()
}

// Clone returns a new Guarded holding a copy of the current contents.
func (g *Guarded[K, V]) Clone() *Guarded[K, V] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &Guarded[K, V]{arr: g.array().Clone()}
}

// String is AssociativeArray.String under the read lock.
func (g *Guarded[K, V]) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.array().String()
}

// Do calls fn with the wrapped array while holding the write lock, so a
// sequence of operations, such as a check followed by a Set, is applied
// without interleaving. fn must not retain the array after it returns.
func (g *Guarded[K, V]) Do(fn func(a *AssociativeArray[K, V]) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.writable())
}

// array returns the wrapped array for reading. Callers hold g.mu.
func (g *Guarded[K, V]) array() *AssociativeArray[K, V] {
	if g.arr == nil {
		return &AssociativeArray[K, V]{}
	}
	return g.arr
}

// writable returns the wrapped array, allocating it on first write to a
// zero Guarded. Callers hold g.mu for writing.
func (g *Guarded[K, V]) writable() *AssociativeArray[K, V] {
	if g.arr == nil {
		g.arr = &AssociativeArray[K, V]{}
	}
	return g.arr
}
