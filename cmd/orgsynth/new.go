// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/orgsynth/internal/session"
	"github.com/pdiddy/orgsynth/internal/store"
)

const refUsage = "ID, ? for a random one (default: current or most recent)"

func newNewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new company, product, employee or email",
		Long: `New generates entities and registers each one under a new ID.

Where a command takes a reference (--id, --from, --to, --product,
--employee) the value is a numeric ID, ? for a random entity of the right
type, or nothing for the current entity if it has the right type and the
most recently created one otherwise.`,
	}
	cmd.AddCommand(
		newCompanyCmd(a),
		newProductCmd(a),
		newEmployeeCmd(a),
		newEmailCmd(a),
	)
	return cmd
}

// generationFlags binds the flags every new subcommand shares.
func generationFlags(fs *pflag.FlagSet, multiply *int, fast *bool) {
	fs.IntVar(multiply, "multiply", 1, "number of times to repeat the generation")
	fs.BoolVar(fast, "fast", false, "use the local generator instead of the language model")
}

func newCompanyCmd(a *app) *cobra.Command {
	var o session.CompanyOptions
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Generate a company with business units",
		Long: `Generate a company: name, size, industry, operating locations, business
units and web domain. Without --location a random country with at least
20 million inhabitants is chosen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.sess.NewCompanies(cmd.Context(), o)
			return err
		},
	}
	cmd.Flags().StringVar(&o.Name, "name", "", "override the generated company name")
	cmd.Flags().StringVar(&o.Location, "location", "", "country the company is based in")
	generationFlags(cmd.Flags(), &o.Multiply, &o.Fast)
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	var o session.ProductOptions
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Generate a product for a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.sess.NewProducts(cmd.Context(), o)
			return err
		},
	}
	cmd.Flags().Var(&o.Company, "id", "company "+refUsage)
	cmd.Flags().StringVar(&o.Name, "name", "", "override the generated product name")
	generationFlags(cmd.Flags(), &o.Multiply, &o.Fast)
	return cmd
}

func newEmployeeCmd(a *app) *cobra.Command {
	var o session.EmployeeOptions
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Generate an employee in one of a company's units",
		Long: `Generate an employee: a person with a role and salary working in a
business unit. The unit defaults to a random one of the company's units
and the location to a random operating location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.sess.NewEmployees(cmd.Context(), o)
			return err
		},
	}
	cmd.Flags().Var(&o.Company, "id", "company "+refUsage)
	cmd.Flags().StringVar(&o.Name, "name", "", `override the generated name, e.g. "Firstname Lastname"`)
	cmd.Flags().StringVar(&o.Unit, "unit", "", "business unit name")
	cmd.Flags().StringVar(&o.Location, "location", "", "where the employee lives")
	generationFlags(cmd.Flags(), &o.Multiply, &o.Fast)
	return cmd
}

func newEmailCmd(a *app) *cobra.Command {
	var o session.EmailOptions
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Generate an email between two employees, or a reply",
		Long: `Generate an email from one employee to another. The tone is informal
when both work for the same company and formal otherwise.

With --id the email is a reply to that email instead: the recipient of the
original writes back to its sender.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.sess.NewEmails(cmd.Context(), o)
			return err
		},
	}
	f := cmd.Flags()
	f.Var(&o.ID, "id", "email to reply to, "+refUsage)
	f.Var(&o.From, "from", "sending employee "+refUsage)
	f.Var(&o.To, "to", "receiving employee "+refUsage)
	f.Var(&o.Product, "product", "product the email must mention, "+refUsage)
	f.Var(&o.Employee, "employee", "employee the email must mention, "+refUsage)
	f.BoolVar(&o.Attachment, "attachment", false, "include an attachment file name")
	f.StringVar(&o.Prompt, "prompt", "", "topic of the email")
	generationFlags(f, &o.Multiply, &o.Fast)
	return cmd
}

var _ pflag.Value = (*store.Ref)(nil)
