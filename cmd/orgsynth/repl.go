// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// repl reads commands from the terminal until exit, quit or end of input.
// Errors are reported and the loop carries on.
func (a *app) repl(ctx context.Context) error {
	cfg := &readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".config", "orgsynth", "history")
		_ = os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0o755)
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("starting prompt: %w", err)
	}
	defer rl.Close()

	// From here on an interrupt cancels the running command only. At the
	// prompt itself readline reports ^C as ErrInterrupt.
	if a.releaseInterrupt != nil {
		a.releaseInterrupt()
	}
	ctx = context.WithoutCancel(ctx)

	a.sess.SetInteractive(true)
	a.inLoop = true
	defer func() { a.inLoop = false }()
	a.log.Info("interactive session started")

	return a.loop(ctx, rl.Readline)
}

// loop feeds lines from next to runLine. It is separate from repl so tests
// can drive it without a terminal.
func (a *app) loop(ctx context.Context, next func() (string, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := next()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := a.runCommand(ctx, line); err != nil {
			a.log.Debug("command failed", zap.String("command", line), zap.Error(err))
			a.report(err)
		}
	}
}

// runCommand runs one line with its own interrupt handling, so ^C stops
// the command and returns to the prompt.
func (a *app) runCommand(ctx context.Context, line string) error {
	cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err := a.runLine(cmdCtx, line)
	if cmdCtx.Err() != nil && ctx.Err() == nil {
		a.log.Info("command interrupted", zap.String("command", line))
		if err == nil {
			err = fmt.Errorf("interrupted: %w", cmdCtx.Err())
		}
	}
	return err
}

// runLine executes one prompt or script line on a fresh command tree.
func (a *app) runLine(ctx context.Context, line string) error {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return nil
	}
	root := newRootCmd(a)
	args, err := tokenize(line, takesValue(root))
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) report(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}

// tokenize splits a command line on white space. Double quotes group words
// and are removed. A token of the form key=value, where key is a plain flag
// name outside any quotes, is rewritten to --key=value so both
// "new company location=France" and "new company --location France" work.
// A token following a flag that takes a value is that value and is left
// alone. takesValue may be nil.
func tokenize(line string, takesValue func(name string) bool) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
		quoted  bool
		keyEnd  = -1
		pending bool
	)
	flush := func() {
		if !started {
			return
		}
		tok := cur.String()
		switch {
		case pending:
			pending = false
		case keyEnd > 0 && isFlagName(tok[:keyEnd]):
			tok = "--" + tok
		case !quoted && takesValue != nil && strings.HasPrefix(tok, "-") && !strings.Contains(tok, "="):
			pending = takesValue(strings.TrimLeft(tok, "-"))
		}
		args = append(args, tok)
		cur.Reset()
		started, quoted, keyEnd = false, false, -1
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started, quoted = true, true
		case inQuote:
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			if r == '=' && keyEnd < 0 && !quoted {
				keyEnd = cur.Len()
			}
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	flush()
	return args, nil
}

// takesValue reports whether a flag anywhere in root's tree needs a value
// argument. Boolean flags do not.
func takesValue(root *cobra.Command) func(name string) bool {
	return func(name string) bool {
		if name == "" {
			return false
		}
		found := false
		var walk func(c *cobra.Command)
		walk = func(c *cobra.Command) {
			for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
				f := fs.Lookup(name)
				if f == nil && len(name) == 1 {
					f = fs.ShorthandLookup(name)
				}
				if f != nil && f.NoOptDefVal == "" {
					found = true
				}
			}
			for _, sub := range c.Commands() {
				walk(sub)
			}
		}
		walk(root)
		return found
	}
}

func isFlagName(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
