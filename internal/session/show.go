package session

import (
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/entity"
	"github.com/pdiddy/orgsynth/internal/store"
)

// Show prints the referenced entity, whatever its type, as JSON.
func (s *Session) Show(ref store.Ref) error {
	obj, err := store.Resolve[any](s.Store, ref, s.rng)
	if err != nil {
		return err
	}
	return s.writeJSON(obj)
}

// ShowCompanies prints every company whose name contains name
// (case-insensitive), or the referenced company when name is empty.
func (s *Session) ShowCompanies(name string, ref store.Ref) error {
	return showMatching(s, name, ref, func(c *entity.Company, q string) bool {
		return strings.Contains(strings.ToLower(c.Name), q)
	})
}

// ShowEmployees prints every employee whose first or last name contains
// name (case-insensitive), or the referenced employee when name is empty.
func (s *Session) ShowEmployees(name string, ref store.Ref) error {
	return showMatching(s, name, ref, func(e *entity.Employee, q string) bool {
		return strings.Contains(strings.ToLower(e.FirstName), q) ||
			strings.Contains(strings.ToLower(e.LastName), q)
	})
}

// ShowProduct prints the referenced product.
func (s *Session) ShowProduct(ref store.Ref) error {
	return showOne[*entity.Product](s, ref)
}

// ShowEmail prints the referenced email.
func (s *Session) ShowEmail(ref store.Ref) error {
	return showOne[*entity.Email](s, ref)
}

func showOne[T any](s *Session, ref store.Ref) error {
	v, err := store.Resolve[T](s.Store, ref, s.rng)
	if err != nil {
		return err
	}
	return s.writeJSON(v)
}

func showMatching[T any](s *Session, name string, ref store.Ref, match func(T, string) bool) error {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return showOne[T](s, ref)
	}

	found := 0
	for _, v := range store.All[T](s.Store) {
		if !match(v, q) {
			continue
		}
		if err := s.writeJSON(v); err != nil {
			return err
		}
		found++
	}
	if found == 0 {
		var zero T
		return &store.NotFoundError{Type: fmt.Sprintf("%s named %q", store.TypeName(zero), name)}
	}
	return nil
}

// Use makes the referenced ID current so later commands default to it.
func (s *Session) Use(ref store.Ref) error {
	if ref.Kind != store.RefExplicit {
		return fmt.Errorf("use needs a numeric id")
	}
	if _, err := s.Store.Lookup(ref.ID); err != nil {
		return err
	}
	s.Store.SetCurrent(ref.ID)
	s.printf("Using ID %d\n", ref.ID)
	return nil
}
