// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns prompts into structured records or free text.
// PromptBackend asks a remote completion service and coerces its answer
// into JSON; LocalBackend synthesizes values without any network access.
package generate

import (
	"context"
	"fmt"
)

// Request carries a prompt plus the hints the local backend needs to
// synthesize an answer without reading the prompt.
type Request struct {
	Prompt string

	// Location is the country the generated values should fit.
	Location string

	// Attachment asks text generation to include an "Attachment: <file>" line.
	Attachment bool
}

// Backend generates data for the entity graph. Implementations are
// interchangeable; callers pick one per invocation.
type Backend interface {
	// Structured fills out, a pointer to a record, from the request.
	Structured(ctx context.Context, req Request, out any) error

	// Text returns free text. Line conventions are imposed by the caller.
	Text(ctx context.Context, req Request) (string, error)
}

// Validator is implemented by records that check their own invariants after
// decoding. A failed validation counts as a failed attempt.
type Validator interface {
	Validate() error
}

// Structured is a typed convenience wrapper around Backend.Structured.
func Structured[T any](ctx context.Context, b Backend, req Request) (T, error) {
	var v T
	if err := b.Structured(ctx, req, &v); err != nil {
		return v, err
	}
	return v, nil
}

// GenerationFailureError reports that structured generation exhausted its
// attempts without producing a parseable record.
type GenerationFailureError struct {
	Attempts int
	Err      error // cause of the last failed attempt
}

func (e *GenerationFailureError) Error() string {
	return fmt.Sprintf("couldn't get a valid response after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationFailureError) Unwrap() error { return e.Err }
