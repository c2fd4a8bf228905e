// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RefKind is the resolution strategy carried by a Ref.
type RefKind int

const (
	// RefLast resolves to the current entity if it matches, otherwise the
	// most recently added entity of the requested type.
	RefLast RefKind = iota
	// RefExplicit resolves a literal ID.
	RefExplicit
	// RefRandom draws uniformly from all entities of the requested type.
	RefRandom
)

func (k RefKind) String() string {
	switch k {
	case RefExplicit:
		return "explicit"
	case RefRandom:
		return "random"
	default:
		return "last"
	}
}

// RandomToken is the wildcard a user types to ask for a random entity.
const RandomToken = "?"

// Ref is a deferred reference to a stored entity. It records what the user
// asked for; the type it resolves to is chosen by the consumer.
type Ref struct {
	Kind RefKind
	ID   ID
	// Supplied is true when the user gave a token, false when defaulted.
	Supplied bool
}

// LastRef is the reference used when no token is supplied.
var LastRef = Ref{Kind: RefLast}

// ParseRef converts a user token into a Ref. An empty token defaults to
// RefLast; "?" is RefRandom; an unsigned integer is RefExplicit. Any other
// token is treated as a supplied RefLast.
func ParseRef(token string) Ref {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return LastRef
	case token == RandomToken:
		return Ref{Kind: RefRandom, Supplied: true}
	}
	if n, err := strconv.ParseUint(token, 10, 64); err == nil {
		return Ref{Kind: RefExplicit, ID: ID(n), Supplied: true}
	}
	return Ref{Kind: RefLast, Supplied: true}
}

func (r Ref) String() string {
	switch r.Kind {
	case RefExplicit:
		return strconv.FormatUint(uint64(r.ID), 10)
	case RefRandom:
		return RandomToken
	default:
		return ""
	}
}

// Set implements pflag.Value so a Ref can be bound directly to a flag.
func (r *Ref) Set(token string) error {
	*r = ParseRef(token)
	return nil
}

// Type implements pflag.Value.
func (r *Ref) Type() string { return "ref" }

// Resolve turns ref into a concrete T from s. rng is used for RefRandom;
// a nil rng uses the global source.
func Resolve[T any](s *Store, ref Ref, rng *rand.Rand) (T, error) {
	switch ref.Kind {
	case RefExplicit:
		return Get[T](s, ref.ID)
	case RefRandom:
		candidates := All[T](s)
		if len(candidates) == 0 {
			var zero T
			return zero, &NotFoundError{Type: typeName[T]()}
		}
		return candidates[intN(rng, len(candidates))], nil
	case RefLast:
		return LastOfType[T](s)
	default:
		var zero T
		return zero, fmt.Errorf("unknown reference kind %d", ref.Kind)
	}
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
