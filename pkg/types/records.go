// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the record shapes exchanged with the generation
// backends and the shared configuration structs.
package types

import (
	"fmt"
	"regexp"
	"strings"
)

// Personalities is the fixed set of Myers-Briggs type codes a Person may carry.
var Personalities = []string{
	"ISTJ", "ISFJ", "INFJ", "INTJ",
	"ISTP", "ISFP", "INFP", "INTP",
	"ESTP", "ESFP", "ENFP", "ENTP",
	"ESTJ", "ESFJ", "ENFJ", "ENTJ",
}

// ValidPersonality reports whether code is one of the 16 Myers-Briggs codes.
func ValidPersonality(code string) bool {
	for _, p := range Personalities {
		if p == code {
			return true
		}
	}
	return false
}

// moneyPattern matches "<amount> <ISO currency>", e.g. "84000 GBP" or "19.99 EUR".
var moneyPattern = regexp.MustCompile(`^\d+(\.\d+)? [A-Z]{3}$`)

// ValidMoney reports whether s is formatted as "<amount> <ISO currency>".
func ValidMoney(s string) bool {
	return moneyPattern.MatchString(s)
}

// NormalizeMoney tidies common model variations of the money format:
// thousands separators and a lower-case currency code.
func NormalizeMoney(s string) string {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return strings.TrimSpace(s)
	}
	amount := strings.ReplaceAll(fields[0], ",", "")
	return amount + " " + strings.ToUpper(fields[1])
}

// CompanyRecord is the generation-time shape of a company. BusinessUnits is
// replaced by Unit objects once the company is materialized.
type CompanyRecord struct {
	Name               string   `json:"Name" yaml:"name"`
	EmployeesTotal     int      `json:"EmployeesTotal" yaml:"employees_total"`
	Industry           string   `json:"Industry" yaml:"industry"`
	OperatingLocations []string `json:"OperatingLocations" yaml:"operating_locations"`
	BusinessUnits      []string `json:"BusinessUnits" yaml:"business_units"`
	DomainName         string   `json:"DomainName" yaml:"domain_name"`
}

// Validate rejects records missing the fields the entity graph relies on.
func (r *CompanyRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("company record: missing Name")
	case r.EmployeesTotal <= 0:
		return fmt.Errorf("company record: EmployeesTotal must be positive, got %d", r.EmployeesTotal)
	case len(r.OperatingLocations) == 0:
		return fmt.Errorf("company record: no OperatingLocations")
	case len(r.BusinessUnits) == 0:
		return fmt.Errorf("company record: no BusinessUnits")
	case strings.TrimSpace(r.DomainName) == "":
		return fmt.Errorf("company record: missing DomainName")
	}
	return nil
}

// PersonRecord is the generation-time shape of a person.
type PersonRecord struct {
	FirstName        string `json:"FirstName" yaml:"first_name"`
	LastName         string `json:"LastName" yaml:"last_name"`
	Age              int    `json:"Age" yaml:"age"`
	Personality      string `json:"Personality" yaml:"personality"`
	NumberOfChildren int    `json:"NumberOfChildren" yaml:"number_of_children"`
}

// Validate enforces the person invariants: adult age and a known personality code.
func (r *PersonRecord) Validate() error {
	r.Personality = strings.ToUpper(strings.TrimSpace(r.Personality))
	switch {
	case strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "":
		return fmt.Errorf("person record: missing name")
	case r.Age <= 18:
		return fmt.Errorf("person record: age %d is not over 18", r.Age)
	case r.NumberOfChildren < 0:
		return fmt.Errorf("person record: negative NumberOfChildren")
	case !ValidPersonality(r.Personality):
		return fmt.Errorf("person record: unknown personality %q", r.Personality)
	}
	return nil
}

// EmploymentRecord is the generation-time addition an Employee carries on top of a person.
type EmploymentRecord struct {
	Salary string `json:"Salary" yaml:"salary"`
	Role   string `json:"Role" yaml:"role"`
}

// Validate normalizes Salary and checks its format.
func (r *EmploymentRecord) Validate() error {
	r.Salary = NormalizeMoney(r.Salary)
	if !ValidMoney(r.Salary) {
		return fmt.Errorf("employment record: salary %q is not \"<amount> <ISO currency>\"", r.Salary)
	}
	if strings.TrimSpace(r.Role) == "" {
		return fmt.Errorf("employment record: missing Role")
	}
	return nil
}

// ProductRecord is the generation-time shape of a product. Description only
// lives for the duration of creation.
type ProductRecord struct {
	Name        string `json:"Name" yaml:"name"`
	Description string `json:"Description" yaml:"description"`
	Price       string `json:"Price" yaml:"price"`
}

// Validate normalizes Price and checks its format.
func (r *ProductRecord) Validate() error {
	r.Price = NormalizeMoney(r.Price)
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("product record: missing Name")
	}
	if !ValidMoney(r.Price) {
		return fmt.Errorf("product record: price %q is not \"<amount> <ISO currency>\"", r.Price)
	}
	return nil
}
