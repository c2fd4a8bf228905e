// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entity holds the generated business objects (companies, units,
// employees, products and emails) and the factory operations that build
// them through a generate.Backend.
//
// Every entity can describe itself in natural language. Factories fold the
// descriptions of an entity's dependencies into the prompt used to generate
// it, so an employee prompt carries its company and unit, and an email
// prompt carries both correspondents and anything the email must mention.
package entity

import "fmt"

// Describable is implemented by every entity that can be used as generation
// context for another entity.
type Describable interface {
	Describe() string
}

// ValidationError reports a violated precondition of a factory operation,
// such as an employee requested for a unit the company does not have.
type ValidationError struct {
	Entity string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

func invalid(entity, format string, args ...any) error {
	return &ValidationError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}
