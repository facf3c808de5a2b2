package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var errDuplicate = errors.New("duplicate entity")

// entity is what the catalog needs from each stored kind: a natural key and
// a structural validity check.
type entity interface {
	comparable
	Key() string
	Validate() error
}

// equaler is implemented by kinds whose key is a hash rather than the full
// identity, so that a key hit must be confirmed.
type equaler[T any] interface {
	Equal(T) bool
}

// entitySet stores one instance per key and remembers insertion order.
// It is not safe for concurrent use; Catalog holds the lock.
type entitySet[T entity] struct {
	byKey map[string][]T
	items []T
}

func newEntitySet[T entity]() *entitySet[T] {
	return &entitySet[T]{byKey: make(map[string][]T)}
}

// insert validates v and adds it unless an equal entity is already stored.
func (s *entitySet[T]) insert(v T) error {
	var zero T
	if v == zero {
		return fmt.Errorf("nil entity")
	}
	if err := v.Validate(); err != nil {
		return err
	}

	key := v.Key()
	for _, existing := range s.byKey[key] {
		if same(existing, v) {
			return errDuplicate
		}
	}

	s.byKey[key] = append(s.byKey[key], v)
	s.items = append(s.items, v)
	return nil
}

// get returns the first entity stored under key.
func (s *entitySet[T]) get(key string) (T, bool) {
	if bucket := s.byKey[key]; len(bucket) > 0 {
		return bucket[0], true
	}
	var zero T
	return zero, false
}

func (s *entitySet[T]) all() []T {
	return slices.Clone(s.items)
}

// same reports whether a and b are the same entity. Kinds without an Equal
// method are identified by key alone.
func same[T entity](a, b T) bool {
	if eq, ok := any(a).(equaler[T]); ok {
		return eq.Equal(b)
	}
	return true
}
