// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the state of one orgsynth run: the object store,
// the generation backends and the output sink. Command handlers call the
// session operations; every created entity is registered in the store and
// emitted, as a one-line summary in interactive mode and as indented JSON
// otherwise.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/internal/secrets"
	"github.com/pdiddy/orgsynth/internal/store"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// RemoteFactory builds the remote backend from the current configuration.
type RemoteFactory func(ctx context.Context, cfg types.BackendConfig, log *zap.Logger) (generate.Backend, error)

// DefaultRemote builds a PromptBackend for the configured provider.
func DefaultRemote(ctx context.Context, cfg types.BackendConfig, log *zap.Logger) (generate.Backend, error) {
	b, err := generate.NewRemote(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Options configures a Session. Zero fields take defaults: stdout, a no-op
// logger, a random seed and DefaultRemote.
type Options struct {
	Out         io.Writer
	Log         *zap.Logger
	Config      types.BackendConfig
	Secrets     secrets.Secrets
	Seed        uint64
	Interactive bool
	Remote      RemoteFactory
}

// Session is the explicit context every command operates on.
type Session struct {
	ID    string
	Store *store.Store

	out         io.Writer
	log         *zap.Logger
	rng         *rand.Rand
	interactive bool
	local       generate.Backend
	secrets     secrets.Secrets
	newRemote   RemoteFactory

	mu     sync.Mutex
	cfg    types.BackendConfig
	remote generate.Backend
}

// New returns a session with an empty store.
func New(opts Options) *Session {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Remote == nil {
		opts.Remote = DefaultRemote
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	id := uuid.NewString()
	return &Session{
		ID:          id,
		Store:       store.New(),
		out:         opts.Out,
		log:         opts.Log.With(zap.String("session", id)),
		rng:         rand.New(rand.NewPCG(seed, seed>>1|1)),
		interactive: opts.Interactive,
		local:       generate.NewLocalBackend(seed),
		secrets:     opts.Secrets,
		newRemote:   opts.Remote,
		cfg:         opts.Config,
	}
}

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.log }

// Out returns the writer results are emitted to.
func (s *Session) Out() io.Writer { return s.out }

// SetInteractive switches between summary lines and JSON output.
func (s *Session) SetInteractive(on bool) { s.interactive = on }

// Interactive reports whether summary output is active.
func (s *Session) Interactive() bool { return s.interactive }

// Backend returns the local backend when fast is set, otherwise the remote
// backend, building it on first use. A configuration error here is not
// recoverable by retrying the same command.
func (s *Session) Backend(ctx context.Context, fast bool) (generate.Backend, error) {
	if fast {
		s.log.Debug("using local backend")
		return s.local, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote != nil {
		return s.remote, nil
	}

	cfg := s.cfg.WithDefaults()
	if cfg.Key == "" {
		cfg.Key = s.secrets.KeyFor(cfg.Provider)
	}
	b, err := s.newRemote(ctx, cfg, s.log)
	if err != nil {
		return nil, fmt.Errorf("configuring %s backend: %w", cfg.Provider, err)
	}
	s.log.Info("remote backend ready",
		zap.String("provider", string(cfg.Provider)),
		zap.String("deployment", cfg.Deployment))
	s.remote = b
	return b, nil
}

// ConfigUpdate carries the fields the set command may change. Empty fields
// are left alone; surrounding quotes are removed.
type ConfigUpdate struct {
	Provider   string
	Deployment string
	Key        string
	URI        string
}

// Configure applies u and drops the cached remote backend so the next
// generation call rebuilds it.
func (s *Session) Configure(u ConfigUpdate) types.BackendConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := unquote(u.Provider); v != "" {
		p := types.Provider(strings.ToLower(v))
		if p != s.cfg.WithDefaults().Provider {
			// A model name belongs to one provider; fall back to the new
			// provider's default unless a deployment comes with it.
			s.cfg.Deployment = ""
		}
		s.cfg.Provider = p
	}
	if v := unquote(u.Deployment); v != "" {
		s.cfg.Deployment = v
	}
	if v := unquote(u.Key); v != "" {
		s.cfg.Key = v
	}
	if v := unquote(u.URI); v != "" {
		s.cfg.URI = v
	}
	s.remote = nil

	s.log.Info("backend configuration changed",
		zap.String("provider", string(s.cfg.Provider)),
		zap.String("deployment", s.cfg.Deployment),
		zap.String("uri", s.cfg.URI),
		zap.Bool("key_set", s.cfg.Key != ""))
	return s.cfg
}

// Config returns the current backend configuration.
func (s *Session) Config() types.BackendConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func unquote(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"`)
}

// add registers obj and emits it.
func (s *Session) add(obj any) error {
	id := s.Store.Add(obj)
	s.log.Debug("registered", zap.Uint64("id", uint64(id)), zap.String("type", store.TypeName(obj)))
	if s.interactive {
		_, err := fmt.Fprintf(s.out, "%s: %d - %v\n", store.TypeName(obj), id, obj)
		return err
	}
	return s.writeJSON(obj)
}

func (s *Session) writeJSON(obj any) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", store.TypeName(obj), err)
	}
	_, err = fmt.Fprintln(s.out, string(data))
	return err
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func times(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
