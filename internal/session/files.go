// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/internal/entity"
	"github.com/pdiddy/orgsynth/internal/persist"
	"github.com/pdiddy/orgsynth/internal/store"
)

// Save writes every company in the store, with everything it owns, to
// path. format may be empty to infer it from the extension.
func (s *Session) Save(ctx context.Context, path, format string) error {
	f, err := persist.FormatFor(path, format)
	if err != nil {
		return err
	}
	companies := store.All[*entity.Company](s.Store)
	if err := persist.Save(ctx, path, f, companies); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	s.log.Info("saved session", zap.String("file", path), zap.String("format", string(f)), zap.Int("companies", len(companies)))
	if s.interactive {
		s.printf("Saved %d companies to %s\n", len(companies), path)
	}
	return nil
}

// Load reads a saved forest and registers every company, product,
// employee and sent email in it, emitting each one.
func (s *Session) Load(ctx context.Context, path, format string) error {
	f, err := persist.FormatFor(path, format)
	if err != nil {
		return err
	}
	companies, err := persist.Load(ctx, path, f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	var emitErr error
	n := 0
	persist.Walk(companies, func(obj any) {
		if err := s.add(obj); err != nil && emitErr == nil {
			emitErr = err
		}
		n++
	})

	s.log.Info("loaded session", zap.String("file", path), zap.String("format", string(f)), zap.Int("objects", n))
	return emitErr
}
