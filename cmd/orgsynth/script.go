// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScriptCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Run the commands listed in a file",
		Long: `Script runs each line of a file as a command, exactly as if it had been
typed at the interactive prompt. Blank lines and lines starting with # are
skipped. A failing line is reported and the script carries on; an
interrupt stops the script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScript(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "script to run")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) runScript(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not load script: %w", err)
	}

	wasInLoop := a.inLoop
	a.inLoop = true
	defer func() { a.inLoop = wasInLoop }()

	log := a.sess.Logger().With(zap.String("script", path))
	for i, line := range strings.Split(string(data), "\n") {
		n := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		log.Debug("running line", zap.Int("line", n), zap.String("command", line))
		if err := a.runLine(ctx, line); err != nil {
			log.Warn("line failed", zap.Int("line", n), zap.Error(err))
			a.report(err)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("script interrupted at line %d: %w", n, ctx.Err())
		}
	}
	return nil
}
