//go:build unix

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/internal/entity"
	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/internal/store"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// hangingBackend interrupts the process on its first call and then waits
// for the request context to end, like a slow language model would.
type hangingBackend struct {
	calls int
}

func (h *hangingBackend) wait(ctx context.Context) error {
	h.calls++
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return errors.New("request was never cancelled")
	}
}

func (h *hangingBackend) Structured(ctx context.Context, _ generate.Request, _ any) error {
	return h.wait(ctx)
}

func (h *hangingBackend) Text(ctx context.Context, _ generate.Request) (string, error) {
	return "", h.wait(ctx)
}

func newHangingApp(t *testing.T) (*app, *bytes.Buffer, *hangingBackend) {
	t.Helper()
	h := &hangingBackend{}
	a, out := newTestAppWithRemote(t, true, func(context.Context, types.BackendConfig, *zap.Logger) (generate.Backend, error) {
		return h, nil
	})
	a.inLoop = true
	return a, out, h
}

func TestLoop_InterruptCancelsOnlyTheRunningCommand(t *testing.T) {
	a, out, h := newHangingApp(t)

	err := a.loop(context.Background(), linesFrom(
		"new company",
		"new company --fast",
	))
	require.NoError(t, err, "the prompt survives the interrupt")

	assert.Equal(t, 1, h.calls)
	assert.Contains(t, out.String(), "Error: ")
	assert.Len(t, store.All[*entity.Company](a.sess.Store), 1, "the next line still runs")
}

func TestScript_InterruptStopsTheScript(t *testing.T) {
	a, _, h := newHangingApp(t)
	script := filepath.Join(t.TempDir(), "slow.org")
	require.NoError(t, os.WriteFile(script, []byte("new company --fast\nnew company\nnew company --fast\n"), 0o644))

	err := a.runCommand(context.Background(), fmt.Sprintf(`script file="%s"`, script))
	require.ErrorContains(t, err, "script interrupted at line 2")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, h.calls)
	assert.Len(t, store.All[*entity.Company](a.sess.Store), 1, "lines after the interrupt do not run")
}
