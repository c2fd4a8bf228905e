package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/orgsynth/internal/store"
)

func newUseCmd(a *app) *cobra.Command {
	var ref store.Ref
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Make an ID current so later commands default to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sess.Use(ref)
		},
	}
	cmd.Flags().Var(&ref, "id", "numeric ID")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
