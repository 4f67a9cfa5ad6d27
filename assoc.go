package assoc

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// DefaultCapacity is the number of entry slots allocated by a new
// AssociativeArray when no WithPresize option is given.
const DefaultCapacity = 16

var (
	// ErrInvalidKey is returned by Set when the key is the null sentinel
	// or holds a value that cannot be compared.
	ErrInvalidKey = stderrors.New("assoc: invalid key")
	// ErrKeyNotFound is returned by Get when no live entry holds the key.
	ErrKeyNotFound = stderrors.New("assoc: key not found")
)

// Entry is a key/value pair held by an AssociativeArray.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// ArrayConfig defines configurable AssociativeArray options.
type ArrayConfig struct {
	capacity   int
	nullKey    any
	hasNullKey bool
}

// WithPresize configures new AssociativeArray instance with room for
// capacity entries before the first growth. If capacity is zero or
// negative, the value is ignored.
func WithPresize(capacity int) func(*ArrayConfig) {
	return func(c *ArrayConfig) {
		c.capacity = capacity
	}
}

// WithNullKey designates key as an additional null sentinel, for key types
// that have no nil value. Set rejects it with ErrInvalidKey and lookups
// never find it. NewAssociativeArray panics if key does not have the
// array's key type. A nil key adds nothing.
//
// A nil pointer, channel or interface key is always a null sentinel,
// with or without this option.
func WithNullKey(key any) func(*ArrayConfig) {
	return func(c *ArrayConfig) {
		c.nullKey = key
		c.hasNullKey = true
	}
}

// AssociativeArray maps unique keys to values using a contiguous slice
// of entries and linear search. Lookup, insertion and removal are O(n).
//
// Live entries keep their insertion order; Remove shifts later entries
// down instead of swapping in the last one, so String output is stable.
//
// An AssociativeArray must not be used by several goroutines at once
// without external locking, see Guarded.
//
// The zero value is an empty array ready to use.
type AssociativeArray[K comparable, V any] struct {
	entries    []Entry[K, V] // len is the size, cap is the capacity
	nullKey    K
	hasNullKey bool
}

// NewAssociativeArray creates a new, empty AssociativeArray.
func NewAssociativeArray[K comparable, V any](
	options ...func(*ArrayConfig),
) *AssociativeArray[K, V] {
	var cfg ArrayConfig
	for _, opt := range options {
		opt(&cfg)
	}
	capacity := DefaultCapacity
	if cfg.capacity > 0 {
		capacity = cfg.capacity
	}
	a := &AssociativeArray[K, V]{
		entries: make([]Entry[K, V], 0, capacity),
	}
	if cfg.hasNullKey && cfg.nullKey != nil {
		nullKey, ok := cfg.nullKey.(K)
		if !ok {
			panic(fmt.Sprintf("assoc: null key %v of type %T does not match the key type %v",
				cfg.nullKey, cfg.nullKey, reflect.TypeFor[K]()))
		}
		a.nullKey, a.hasNullKey = nullKey, true
	}
	return a
}

// Set associates value with key. An existing entry for key is
// overwritten in place; otherwise a new entry is appended, doubling
// the storage first if it is full.
//
// Set fails with ErrInvalidKey, and changes nothing, if key is the
// null sentinel or an interface holding an uncomparable value such as
// a slice.
func (a *AssociativeArray[K, V]) Set(key K, value V) error {
	if a.invalidKey(key) {
		return errors.Wrapf(ErrInvalidKey, "set %v", key)
	}
	if i := a.index(key); i >= 0 {
		a.entries[i].Value = value
		return nil
	}
	if len(a.entries) == cap(a.entries) {
		a.grow()
	}
	a.entries = append(a.entries, Entry[K, V]{Key: key, Value: value})
	return nil
}

// Get returns the value associated with key, or an error matching
// ErrKeyNotFound if there is none. The null sentinel is never found.
func (a *AssociativeArray[K, V]) Get(key K) (V, error) {
	i := a.index(key)
	if i < 0 {
		var zero V
		return zero, errors.Wrapf(ErrKeyNotFound, "get %v", key)
	}
	return a.entries[i].Value, nil
}

// HasKey reports whether key has an entry. It returns false for the
// null sentinel.
func (a *AssociativeArray[K, V]) HasKey(key K) bool {
	return a.index(key) >= 0
}

// Remove deletes the entry for key, keeping the relative order of the
// remaining entries. Removing an absent key does nothing.
func (a *AssociativeArray[K, V]) Remove(key K) {
	i := a.index(key)
	if i < 0 {
		return
	}
	n := len(a.entries) - 1
	copy(a.entries[i:], a.entries[i+1:])
	// Drop the references held by the vacated tail slot.
	a.entries[n] = Entry[K, V]{}
	a.entries = a.entries[:n]
}

// Size returns the number of entries.
func (a *AssociativeArray[K, V]) Size() int {
	return len(a.entries)
}

// Capacity returns the number of entry slots currently allocated.
func (a *AssociativeArray[K, V]) Capacity() int {
	return cap(a.entries)
}

// Clone creates a copy of the array with its own storage. Changes to
// either array are not visible in the other. Keys and values are copied
// by assignment, so pointer values still refer to the same objects.
func (a *AssociativeArray[K, V]) Clone() *AssociativeArray[K, V] {
	capacity := cap(a.entries)
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	entries := make([]Entry[K, V], len(a.entries), capacity)
	copy(entries, a.entries)
	return &AssociativeArray[K, V]{
		entries:    entries,
		nullKey:    a.nullKey,
		hasNullKey: a.hasNullKey,
	}
}

// String implement the formatting output interface fmt.Stringer.
// An empty array renders as "{}", otherwise as "{ k1: v1, k2: v2 }"
// in insertion order.
func (a *AssociativeArray[K, V]) String() string {
	if len(a.entries) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for i := range a.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", a.entries[i].Key, a.entries[i].Value)
	}
	sb.WriteString(" }")
	return sb.String()
}

// index returns the position of the live entry holding key, or -1.
// Invalid keys are never stored, so they are not searched for.
func (a *AssociativeArray[K, V]) index(key K) int {
	if a.invalidKey(key) {
		return -1
	}
	for i := range a.entries {
		if a.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// grow doubles the capacity, keeping every entry at its index.
func (a *AssociativeArray[K, V]) grow() {
	capacity := 2 * cap(a.entries)
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	entries := make([]Entry[K, V], len(a.entries), capacity)
	copy(entries, a.entries)
	a.entries = entries
}

// invalidKey reports whether key is a null sentinel or cannot be
// compared with ==. Only interface key types can carry the latter.
func (a *AssociativeArray[K, V]) invalidKey(key K) bool {
	k := any(key)
	if k == nil {
		return true
	}
	v := reflect.ValueOf(k)
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer,
		reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		if v.IsNil() {
			return true
		}
	}
	if !v.Comparable() {
		return true
	}
	return a.hasNullKey && key == a.nullKey
}
