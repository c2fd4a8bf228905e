// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/orgsynth/internal/session"
)

func newSetCmd(a *app) *cobra.Command {
	var u session.ConfigUpdate
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the language model configuration",
		Long: `Set changes the remote backend settings for the rest of the session. The
next command that needs the language model reconnects with them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sess.Configure(u)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Provider, "provider", "", "azure, openai, anthropic or gemini")
	cmd.Flags().StringVar(&u.Deployment, "deployment", "", "model or Azure deployment name")
	cmd.Flags().StringVar(&u.Key, "key", "", "API key")
	cmd.Flags().StringVar(&u.URI, "uri", "", "service endpoint")
	return cmd
}
