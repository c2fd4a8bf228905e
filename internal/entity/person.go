// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// Person is the personal half of an employee.
type Person struct {
	FirstName        string `json:"FirstName" yaml:"first_name"`
	LastName         string `json:"LastName" yaml:"last_name"`
	Location         string `json:"Location" yaml:"location"`
	Age              int    `json:"Age" yaml:"age"`
	NumberOfChildren int    `json:"NumberOfChildren" yaml:"number_of_children"`
	Personality      string `json:"Personality" yaml:"personality"`
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Describe implements Describable. The personality code steers the tone of
// anything written for this person but must never show up in that text.
func (p *Person) Describe() string {
	return fmt.Sprintf("%s is a %d year old who lives in %s. %s's Myers-Briggs personality is %s; "+
		"any text written on their behalf must reflect those traits. "+
		"Do not state their personality type or mention Myers-Briggs in the text.",
		p.FullName(), p.Age, p.Location, p.FirstName, p.Personality)
}

const personPrompt = `Generate personal details for a story about an individual who resides in %s.
Names must not look fictional or be based on famous people.
Use names that are popular in that region but avoid obvious placeholders such as John Smith.
The JSON must have exactly the keys FirstName, LastName, Age, Personality and NumberOfChildren.
Age must be over 18. Personality must be a 4 character Myers-Briggs Type Indicator such as INTJ.`

// NewPerson generates a person living in location.
func NewPerson(ctx context.Context, b generate.Backend, location string) (*Person, error) {
	rec, err := generate.Structured[types.PersonRecord](ctx, b, generate.Request{
		Prompt:   fmt.Sprintf(personPrompt, location),
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("generating person: %w", err)
	}
	return &Person{
		FirstName:        strings.TrimSpace(rec.FirstName),
		LastName:         strings.TrimSpace(rec.LastName),
		Location:         location,
		Age:              rec.Age,
		NumberOfChildren: rec.NumberOfChildren,
		Personality:      rec.Personality,
	}, nil
}
