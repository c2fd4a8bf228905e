// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// Employee is a Person employed in one unit of one company. Company and
// Unit are not serialized; persistence re-links them on load.
type Employee struct {
	Person `yaml:",inline"`

	Role         string   `json:"Role" yaml:"role"`
	Salary       string   `json:"Salary" yaml:"salary"`
	SentMessages []*Email `json:"SentMessages" yaml:"sent_messages"`

	Company *Company `json:"-" yaml:"-"`
	Unit    *Unit    `json:"-" yaml:"-"`
}

func (e *Employee) String() string {
	return fmt.Sprintf("%s - %s", e.FullName(), e.Role)
}

// Describe implements Describable. It extends the person description with
// the employee's role, employer and unit.
func (e *Employee) Describe() string {
	var sb strings.Builder
	sb.WriteString(e.Person.Describe())
	fmt.Fprintf(&sb, " As background they work as a %s", e.Role)
	if e.Company != nil {
		fmt.Fprintf(&sb, " at %s", e.Company.Name)
	}
	if e.Unit != nil {
		fmt.Fprintf(&sb, " in the %s department", e.Unit.Name)
	}
	sb.WriteString(".")
	return sb.String()
}

// EmailAddress is first.last@domain, lower-cased, using the company domain.
func (e *Employee) EmailAddress() string {
	domain := ""
	if e.Company != nil {
		domain = e.Company.Domain
	}
	local := strings.Join(strings.Fields(e.FirstName), "") + "." + strings.Join(strings.Fields(e.LastName), "")
	return strings.ToLower(local + "@" + domain)
}

// Rename replaces the employee's name with "First Last". A single word sets
// both names, matching how the name option has always behaved.
func (e *Employee) Rename(name string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return
	}
	e.FirstName, e.LastName = parts[0], parts[len(parts)-1]
}

const employmentPrompt = `You must generate fictional employment data for an employee named %s who works in the %s unit.
%s
%s
The JSON must have exactly two keys, Salary and Role.
The salary should be realistic for their location, role and employer sector.
Salary must be a string in the format <AMOUNT> <ISO CURRENCY>, for example 84000 GBP.`

// NewEmployee generates a person living in location and employs them in
// unit, which must belong to c. The employee is appended to the unit.
func NewEmployee(ctx context.Context, b generate.Backend, c *Company, unit *Unit, location string) (*Employee, error) {
	if c == nil {
		return nil, invalid("employee", "no company given")
	}
	if unit == nil {
		return nil, invalid("employee", "%s has no unit to assign the employee to", c.Name)
	}
	if !c.owns(unit) {
		return nil, invalid("employee", "unit %q does not belong to %s", unit.Name, c.Name)
	}
	if location == "" {
		location = c.HomeLocation()
	}

	p, err := NewPerson(ctx, b, location)
	if err != nil {
		return nil, err
	}

	rec, err := generate.Structured[types.EmploymentRecord](ctx, b, generate.Request{
		Prompt:   fmt.Sprintf(employmentPrompt, p.FullName(), unit.Name, p.Describe(), c.Describe()),
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("generating employment for %s: %w", p.FullName(), err)
	}

	e := &Employee{
		Person:  *p,
		Role:    strings.TrimSpace(rec.Role),
		Salary:  rec.Salary,
		Company: c,
		Unit:    unit,
	}
	unit.Employees = append(unit.Employees, e)
	return e, nil
}

func (c *Company) owns(unit *Unit) bool {
	for _, u := range c.Units {
		if u == unit {
			return true
		}
	}
	return false
}
