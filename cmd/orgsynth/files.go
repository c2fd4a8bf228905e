// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

const formatUsage = "json, yaml or sqlite (default: from the file extension)"

func newSaveCmd(a *app) *cobra.Command {
	var file, format string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save every company and everything it owns to a file",
		Long: `Save writes the companies in the session, with their units, employees,
sent emails and products, to a JSON or YAML document or a SQLite archive.
An existing file is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sess.Save(cmd.Context(), file, format)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "file to write")
	cmd.Flags().StringVar(&format, "format", "", formatUsage)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadCmd(a *app) *cobra.Command {
	var file, format string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load saved companies into the session",
		Long: `Load reads a file written by save and registers every company, product,
employee and sent email in it under new IDs, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sess.Load(cmd.Context(), file, format)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "file to read")
	cmd.Flags().StringVar(&format, "format", "", formatUsage)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
