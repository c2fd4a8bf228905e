// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// Company owns its units and products. Domain is used for every employee
// email address.
type Company struct {
	Name               string     `json:"Name" yaml:"name"`
	EmployeesTotal     int        `json:"EmployeesTotal" yaml:"employees_total"`
	Industry           string     `json:"Industry" yaml:"industry"`
	OperatingLocations []string   `json:"OperatingLocations" yaml:"operating_locations"`
	Units              []*Unit    `json:"Units" yaml:"units"`
	Products           []*Product `json:"Products" yaml:"products"`
	Domain             string     `json:"Domain" yaml:"domain"`
}

func (c *Company) String() string { return c.Name }

// Describe implements Describable.
func (c *Company) Describe() string {
	return fmt.Sprintf("%s is a company with %d employees that operates in the %s industry. It operates out of %s.",
		c.Name, c.EmployeesTotal, c.Industry, strings.Join(c.OperatingLocations, ", "))
}

// HomeLocation returns the first operating location, or "" if there is none.
func (c *Company) HomeLocation() string {
	if len(c.OperatingLocations) == 0 {
		return ""
	}
	return c.OperatingLocations[0]
}

// Unit returns the unit with the given name (case-insensitive).
func (c *Company) Unit(name string) (*Unit, error) {
	for _, u := range c.Units {
		if strings.EqualFold(u.Name, strings.TrimSpace(name)) {
			return u, nil
		}
	}
	return nil, invalid("unit", "%s has no unit named %q", c.Name, name)
}

// Employees returns every employee of every unit, unit by unit.
func (c *Company) Employees() []*Employee {
	var out []*Employee
	for _, u := range c.Units {
		out = append(out, u.Employees...)
	}
	return out
}

// Unit is a business unit of a company. Its employee list only grows.
type Unit struct {
	Name      string      `json:"Name" yaml:"name"`
	Employees []*Employee `json:"Employees" yaml:"employees"`
}

func (u *Unit) String() string { return u.Name }

// Describe implements Describable.
func (u *Unit) Describe() string {
	return fmt.Sprintf("The %s business unit has %d employees.", u.Name, len(u.Employees))
}

const companyPrompt = `Generate a brand new business which is operated out of %s.
The JSON must have exactly the keys Name, EmployeesTotal, Industry, BusinessUnits, OperatingLocations and DomainName.
OperatingLocations is a list of countries where the company operates; they must be plausible for the industry.
Industry is the type of industry the company belongs to.
EmployeesTotal is the total number of employees of the business.
BusinessUnits is a list of internal subdivisions: core business functions plus groups related to the company's work. Their number must reflect the size of the business.
DomainName is a domain name the business could plausibly use, without a scheme or "www.".`

// NewCompany generates a company operating out of location. Its business
// units are materialized as empty Units.
func NewCompany(ctx context.Context, b generate.Backend, location string) (*Company, error) {
	rec, err := generate.Structured[types.CompanyRecord](ctx, b, generate.Request{
		Prompt:   fmt.Sprintf(companyPrompt, location),
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("generating company: %w", err)
	}

	c := &Company{
		Name:               strings.TrimSpace(rec.Name),
		EmployeesTotal:     rec.EmployeesTotal,
		Industry:           rec.Industry,
		OperatingLocations: rec.OperatingLocations,
		Domain:             normalizeDomain(rec.DomainName),
	}
	for _, name := range rec.BusinessUnits {
		if name = strings.TrimSpace(name); name != "" {
			c.Units = append(c.Units, &Unit{Name: name})
		}
	}
	return c, nil
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}
