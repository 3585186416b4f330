package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolParse/pkg/client"
	"github.com/turtacn/MolParse/pkg/types/chem"
)

// newMoleculesCmd groups the stored-molecule commands.  These always need a
// running API server.
func newMoleculesCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "molecules",
		Short: "Manage molecules stored by a MolParse server",
	}
	cmd.AddCommand(
		newMoleculesGetCmd(opts),
		newMoleculesListCmd(opts),
		newMoleculesDeleteCmd(opts),
	)
	return cmd
}

func newAPIClient(opts *RootOptions) (*client.Client, error) {
	addr := opts.ServerAddr
	if addr == "" {
		addr = "http://localhost:8080"
	}
	return client.NewClient(addr)
}

func newMoleculesGetCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a stored molecule by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			dto, err := c.Molecules().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), dto)
			}
			return writeMoleculeTable(cmd.OutOrStdout(), []chem.MoleculeDTO{*dto})
		},
	}
}

func newMoleculesListCmd(opts *RootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored molecules",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			result, err := c.Molecules().List(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			if err := writeMoleculeTable(cmd.OutOrStdout(), result.Items); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d total\n", result.Page, result.Total)
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")
	return cmd
}

func newMoleculesDeleteCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			if err := c.Molecules().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}

func writeMoleculeTable(w io.Writer, molecules []chem.MoleculeDTO) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSMILES\tFORMULA\tWEIGHT\tATOMS\tBONDS")
	for _, m := range molecules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%d\n",
			m.ID, m.SMILES, m.MolecularFormula, m.MolecularWeight, m.AtomCount, m.BondCount)
	}
	return tw.Flush()
}
