// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/pkg/types"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single message of a chat completion request.
type Message struct {
	Role    Role
	Content string
}

// ChatClient abstracts the remote completion service so tests can supply a
// mock. Each implementation performs a single round trip and returns the
// raw text of the first choice.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// structuredPreamble is sent ahead of every structured generation prompt.
var structuredPreamble = []string{
	"You are a tool that generates real world representative data for consumption by other tools.",
	"Your output must only be a single valid JSON document. Markdown, summaries or preamble text are strictly forbidden.",
	"You must not describe your output in free text, just output a single JSON document.",
	"Your output must be suitable for a computer to parse.",
}

const textPreamble = "You are an AI assistant that generates real world representative data for testing."

// backoffBase controls the pause after a failed call to the completion
// service. Malformed output is retried immediately. Tests override this.
var backoffBase = 250 * time.Millisecond

var errNoJSON = errors.New("response contains no JSON object")

// PromptBackend generates records by prompting a remote completion service
// and coercing its answer into JSON, retrying a bounded number of times.
type PromptBackend struct {
	client     ChatClient
	maxRetries int
	tempMin    float64
	tempMax    float64
	rng        *rand.Rand
	log        *zap.Logger
}

// PromptOption customizes a PromptBackend.
type PromptOption func(*PromptBackend)

// WithRand sets the source used for temperature sampling.
func WithRand(rng *rand.Rand) PromptOption {
	return func(b *PromptBackend) { b.rng = rng }
}

// NewPromptBackend returns a backend that talks to client. Zero config
// fields take their defaults.
func NewPromptBackend(client ChatClient, cfg types.BackendConfig, log *zap.Logger, opts ...PromptOption) *PromptBackend {
	cfg = cfg.WithDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	b := &PromptBackend{
		client:     client,
		maxRetries: cfg.MaxRetries,
		tempMin:    cfg.TemperatureMin,
		tempMax:    cfg.TemperatureMax,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:        log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MaxAttempts is the total number of calls Structured makes before giving up.
func (b *PromptBackend) MaxAttempts() int {
	return b.maxRetries + 1
}

// Structured sends the prompt with the JSON-only preamble and decodes the
// answer into out. Transport errors, missing JSON, decode errors and
// Validate failures all trigger another attempt.
func (b *PromptBackend) Structured(ctx context.Context, req Request, out any) error {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("structured generation needs a non-nil pointer, got %T", out)
	}

	messages := make([]Message, 0, len(structuredPreamble)+1)
	for _, s := range structuredPreamble {
		messages = append(messages, Message{Role: RoleSystem, Content: s})
	}
	messages = append(messages, Message{Role: RoleUser, Content: strings.TrimSpace(req.Prompt)})

	attempts := b.MaxAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		temperature := b.temperature()
		raw, err := b.client.Complete(ctx, messages, temperature)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("calling completion service: %w", err)
			b.log.Warn("completion failed",
				zap.Int("attempt", attempt), zap.Int("max_attempts", attempts), zap.Error(err))
			if err := sleep(ctx, time.Duration(math.Pow(2, float64(attempt-1)))*backoffBase); err != nil {
				return err
			}
			continue
		}

		fresh := reflect.New(target.Elem().Type())
		if err := decodeRecord(raw, fresh.Interface()); err != nil {
			lastErr = err
			b.log.Debug("discarding unparseable response",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Float64("temperature", temperature),
				zap.Error(err))
			continue
		}

		target.Elem().Set(fresh.Elem())
		b.log.Debug("structured response accepted",
			zap.Int("attempt", attempt), zap.String("shape", target.Elem().Type().Name()))
		return nil
	}

	return &GenerationFailureError{Attempts: attempts, Err: lastErr}
}

// Text performs a single round trip and returns the raw answer.
func (b *PromptBackend) Text(ctx context.Context, req Request) (string, error) {
	messages := []Message{
		{Role: RoleSystem, Content: textPreamble},
		{Role: RoleUser, Content: req.Prompt},
	}
	raw, err := b.client.Complete(ctx, messages, b.temperature())
	if err != nil {
		return "", fmt.Errorf("calling completion service: %w", err)
	}
	return raw, nil
}

// temperature draws a sampling temperature from [tempMin, tempMax).
func (b *PromptBackend) temperature() float64 {
	t := b.tempMin + b.rng.Float64()*(b.tempMax-b.tempMin)
	if t <= 0 {
		t = types.DefaultTemperatureMin
	}
	return t
}

// ExtractJSON strips code fences and any prose around the outermost JSON
// object: everything before the first '{' and after the last '}' is dropped.
func ExtractJSON(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}

// decodeRecord extracts the JSON object from raw, decodes exactly one value
// into v and runs its Validate hook when present.
func decodeRecord(raw string, v any) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(strings.NewReader(doc))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing response JSON: trailing data after first value")
	}

	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("validating response: %w", err)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
