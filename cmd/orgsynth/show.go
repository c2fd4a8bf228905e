package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/orgsynth/internal/store"
)

func newShowCmd(a *app) *cobra.Command {
	var ref store.Ref
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print an entity as JSON",
		Long: `Show prints the entity with the given ID, whatever its type, as indented
JSON. The subcommands restrict the lookup to one type and, for companies and
employees, can search by name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sess.Show(ref)
		},
	}
	cmd.Flags().Var(&ref, "id", refUsage)
	cmd.AddCommand(
		showNamedCmd("company", "companies", a.showCompanies),
		showNamedCmd("employee", "employees", a.showEmployees),
		showTypedCmd("product", a.showProduct),
		showTypedCmd("email", a.showEmail),
	)
	return cmd
}

func showNamedCmd(use, plural string, show func(name string, ref store.Ref) error) *cobra.Command {
	var (
		name string
		ref  store.Ref
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: "Print " + plural + " by name or ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(name, ref)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "print every one whose name contains this text")
	cmd.Flags().Var(&ref, "id", refUsage)
	return cmd
}

func showTypedCmd(use string, show func(ref store.Ref) error) *cobra.Command {
	var ref store.Ref
	cmd := &cobra.Command{
		Use:   use,
		Short: "Print a " + use + " by ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(ref)
		},
	}
	cmd.Flags().Var(&ref, "id", refUsage)
	return cmd
}

// The session is created in PersistentPreRunE, after the tree is built, so
// handlers look it up when they run.

func (a *app) showCompanies(name string, ref store.Ref) error { return a.sess.ShowCompanies(name, ref) }
func (a *app) showEmployees(name string, ref store.Ref) error { return a.sess.ShowEmployees(name, ref) }
func (a *app) showProduct(ref store.Ref) error                { return a.sess.ShowProduct(ref) }
func (a *app) showEmail(ref store.Ref) error                  { return a.sess.ShowEmail(ref) }
