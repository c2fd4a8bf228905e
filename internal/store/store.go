// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps every entity generated during a session, addressable
// by a sequential numeric ID, and resolves deferred references to them.
package store

import (
	"fmt"
	"strings"
	"sync"
)

// ID identifies a stored entity. IDs start at 1 and are never reused.
type ID uint64

// Store is the session's in-memory object store. The zero value is not
// usable; call New.
type Store struct {
	mu      sync.RWMutex
	objects map[ID]any
	order   []ID
	last    ID
	current ID
}

// New returns an empty store.
func New() *Store {
	return &Store{objects: make(map[ID]any)}
}

// Add registers obj under the next sequential ID and makes it current.
func (s *Store) Add(obj any) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	id := s.last
	s.objects[id] = obj
	s.order = append(s.order, id)
	s.current = id
	return id
}

// SetCurrent overrides the current pointer. The ID is not required to
// exist; lookups through an unknown current ID fall back to scanning.
func (s *Store) SetCurrent(id ID) {
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
}

// Current returns the current pointer (0 when nothing was added yet).
func (s *Store) Current() ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Len returns the number of stored entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Lookup returns the entity stored under id regardless of its type.
func (s *Store) Lookup(id ID) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return obj, nil
}

// IDOf returns the ID obj was registered under.
func (s *Store) IDOf(obj any) (ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.objects[id] == obj {
			return id, true
		}
	}
	return 0, false
}

// Get returns the entity stored under id as a T.
func Get[T any](s *Store, id ID) (T, error) {
	var zero T
	obj, err := s.Lookup(id)
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, &TypeMismatchError{ID: id, Want: typeName[T](), Got: TypeName(obj)}
	}
	return v, nil
}

// All returns every stored entity assignable to T in insertion order.
func All[T any](s *Store) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []T{}
	for _, id := range s.order {
		if v, ok := s.objects[id].(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// LastOfType returns the current entity if it is a T, otherwise the T with
// the highest ID.
func LastOfType[T any](s *Store) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.objects[s.current].(T); ok {
		return v, nil
	}
	for i := len(s.order) - 1; i >= 0; i-- {
		if v, ok := s.objects[s.order[i]].(T); ok {
			return v, nil
		}
	}
	var zero T
	return zero, &NotFoundError{Type: typeName[T]()}
}

// typeName renders T the way users see it in errors: "Company", not "*entity.Company".
func typeName[T any]() string {
	var zero T
	return TypeName(&zero)
}

// TypeName is the short type name of obj without package or pointer
// decoration, as shown in summaries and errors.
func TypeName(obj any) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", obj), "*")
	if name == "interface {}" {
		return "object"
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
