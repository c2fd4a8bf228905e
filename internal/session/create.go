// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/internal/entity"
	"github.com/pdiddy/orgsynth/internal/locale"
	"github.com/pdiddy/orgsynth/internal/store"
)

// CompanyOptions are the inputs of NewCompanies.
type CompanyOptions struct {
	Name     string
	Location string // random populous country when empty
	Multiply int
	Fast     bool
}

// NewCompanies generates Multiply companies and registers each one.
func (s *Session) NewCompanies(ctx context.Context, o CompanyOptions) ([]*entity.Company, error) {
	b, err := s.Backend(ctx, o.Fast)
	if err != nil {
		return nil, err
	}

	var out []*entity.Company
	for i := 0; i < times(o.Multiply); i++ {
		location := strings.TrimSpace(o.Location)
		if location == "" {
			location = locale.Default().RandomCountry(s.rng).Name
		}
		s.log.Debug("generating company", zap.String("location", location), zap.Bool("fast", o.Fast))

		c, err := entity.NewCompany(ctx, b, location)
		if err != nil {
			return out, err
		}
		if name := strings.TrimSpace(o.Name); name != "" {
			c.Name = name
		}
		if err := s.add(c); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ProductOptions are the inputs of NewProducts.
type ProductOptions struct {
	Company  store.Ref
	Name     string
	Multiply int
	Fast     bool
}

// NewProducts generates Multiply products for the referenced company.
func (s *Session) NewProducts(ctx context.Context, o ProductOptions) ([]*entity.Product, error) {
	b, err := s.Backend(ctx, o.Fast)
	if err != nil {
		return nil, err
	}

	var out []*entity.Product
	for i := 0; i < times(o.Multiply); i++ {
		c, err := store.Resolve[*entity.Company](s.Store, o.Company, s.rng)
		if err != nil {
			return out, err
		}
		p, err := entity.NewProduct(ctx, b, c)
		if err != nil {
			return out, err
		}
		if name := strings.TrimSpace(o.Name); name != "" {
			p.Name = name
		}
		if err := s.add(p); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

// EmployeeOptions are the inputs of NewEmployees.
type EmployeeOptions struct {
	Company  store.Ref
	Name     string // "First Last"
	Unit     string // random unit when empty
	Location string // random operating location when empty
	Multiply int
	Fast     bool
}

// NewEmployees generates Multiply employees for the referenced company.
func (s *Session) NewEmployees(ctx context.Context, o EmployeeOptions) ([]*entity.Employee, error) {
	b, err := s.Backend(ctx, o.Fast)
	if err != nil {
		return nil, err
	}

	var out []*entity.Employee
	for i := 0; i < times(o.Multiply); i++ {
		c, err := store.Resolve[*entity.Company](s.Store, o.Company, s.rng)
		if err != nil {
			return out, err
		}
		unit, err := s.pickUnit(c, o.Unit)
		if err != nil {
			return out, err
		}
		location := strings.TrimSpace(o.Location)
		if location == "" && len(c.OperatingLocations) > 0 {
			location = c.OperatingLocations[s.rng.IntN(len(c.OperatingLocations))]
		}

		e, err := entity.NewEmployee(ctx, b, c, unit, location)
		if err != nil {
			return out, err
		}
		e.Rename(o.Name)
		if err := s.add(e); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Session) pickUnit(c *entity.Company, name string) (*entity.Unit, error) {
	if strings.TrimSpace(name) != "" {
		return c.Unit(name)
	}
	if len(c.Units) == 0 {
		return nil, &entity.ValidationError{Entity: "employee", Reason: c.Name + " has no units"}
	}
	return c.Units[s.rng.IntN(len(c.Units))], nil
}

// EmailOptions are the inputs of NewEmails. A supplied ID means reply to
// that email; otherwise a new email is composed from From to To. Product
// and Employee are only mentioned when supplied.
type EmailOptions struct {
	ID         store.Ref
	From       store.Ref
	To         store.Ref
	Product    store.Ref
	Employee   store.Ref
	Attachment bool
	Prompt     string
	Multiply   int
	Fast       bool
}

// NewEmails generates Multiply emails or replies.
func (s *Session) NewEmails(ctx context.Context, o EmailOptions) ([]*entity.Email, error) {
	b, err := s.Backend(ctx, o.Fast)
	if err != nil {
		return nil, err
	}

	var out []*entity.Email
	for i := 0; i < times(o.Multiply); i++ {
		var m *entity.Email
		if o.ID.Supplied {
			original, err := store.Resolve[*entity.Email](s.Store, o.ID, s.rng)
			if err != nil {
				return out, err
			}
			s.log.Debug("replying", s.idField("email", original), zap.String("subject", original.Subject))
			m, err = original.Reply(ctx, b, original.To, original.From)
			if err != nil {
				return out, err
			}
		} else {
			refs, err := s.emailRefs(o)
			if err != nil {
				return out, err
			}
			from, err := store.Resolve[*entity.Employee](s.Store, o.From, s.rng)
			if err != nil {
				return out, err
			}
			to, err := store.Resolve[*entity.Employee](s.Store, o.To, s.rng)
			if err != nil {
				return out, err
			}
			s.log.Debug("generating email", s.idField("from", from), s.idField("to", to))
			m, err = entity.NewEmail(ctx, b, from, to, refs, o.Attachment, o.Prompt)
			if err != nil {
				return out, err
			}
		}
		if err := s.add(m); err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, nil
}

// idField names obj by its store ID, so log entries say which entity a
// last or random reference picked.
func (s *Session) idField(key string, obj any) zap.Field {
	if id, ok := s.Store.IDOf(obj); ok {
		return zap.Uint64(key, uint64(id))
	}
	return zap.Skip()
}

func (s *Session) emailRefs(o EmailOptions) ([]entity.Describable, error) {
	var refs []entity.Describable
	if o.Product.Supplied {
		p, err := store.Resolve[*entity.Product](s.Store, o.Product, s.rng)
		if err != nil {
			return nil, err
		}
		refs = append(refs, p)
	}
	if o.Employee.Supplied {
		e, err := store.Resolve[*entity.Employee](s.Store, o.Employee, s.rng)
		if err != nil {
			return nil, err
		}
		refs = append(refs, e)
	}
	return refs, nil
}
