package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolParse/internal/application/parsing"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/pkg/client"
	"github.com/turtacn/MolParse/pkg/types/chem"
)

// newParseCmd builds the parse command.  It parses locally by default, or
// against a running API server when --server is set.
func newParseCmd(opts *RootOptions) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "parse [SMILES...]",
		Short: "Parse SMILES strings into molecular graphs",
		Long:  "Parse one or more SMILES strings and print the resulting molecular\ngraphs.  With no arguments, strings are read from stdin one per line.\nA rejected string is reported with its error kind, code, and column;\nthe command exits non-zero if any input was rejected.",
		Example: `  molparse parse "CCO"
  molparse parse "c1ccccc1" "[Na+].[Cl-]" -o json
  cat molecules.txt | molparse parse
  molparse parse --server http://localhost:8080 --persist "CCO"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				read, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				inputs = read
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no SMILES input given")
			}

			parse, err := newParseFunc(opts, persist)
			if err != nil {
				return err
			}

			rejected := 0
			for _, smiles := range inputs {
				resp, err := parse(cmd.Context(), smiles)
				if err != nil {
					return err
				}
				if resp.Error != nil {
					rejected++
				}
				if err := writeParseResult(cmd.OutOrStdout(), opts.OutputFormat, smiles, resp); err != nil {
					return err
				}
			}
			if rejected > 0 {
				return fmt.Errorf("%d of %d inputs rejected", rejected, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "store parsed molecules (requires --server)")
	return cmd
}

type parseFunc func(ctx context.Context, smiles string) (*chem.ParseResponse, error)

// newParseFunc picks the local parser or the remote API depending on flags.
func newParseFunc(opts *RootOptions, persist bool) (parseFunc, error) {
	if opts.ServerAddr == "" {
		if persist {
			return nil, fmt.Errorf("--persist requires --server")
		}
		svc := parsing.NewService(nil, nil, nil, nil, logging.NewNopLogger(), parsing.Config{})
		return func(ctx context.Context, smiles string) (*chem.ParseResponse, error) {
			return svc.Parse(ctx, &chem.ParseRequest{SMILES: smiles})
		}, nil
	}

	c, err := client.NewClient(opts.ServerAddr)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, smiles string) (*chem.ParseResponse, error) {
		return c.Molecules().Parse(ctx, smiles, persist)
	}, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// writeParseResult renders one parse outcome in the requested format.
func writeParseResult(w io.Writer, format, smiles string, resp *chem.ParseResponse) error {
	if format == "json" {
		return printJSON(w, resp)
	}

	if resp.Error != nil {
		_, err := fmt.Fprintf(w, "%s: REJECTED (%s %s at column %d): %s\n",
			smiles, resp.Error.Kind, resp.Error.Code, resp.Error.Column, resp.Error.Message)
		return err
	}

	g := resp.Graph
	_, err := fmt.Fprintf(w, "%s: %s  MW=%.2f  atoms=%d bonds=%d components=%d\n",
		smiles, g.MolecularFormula, g.MolecularWeight, len(g.Atoms), len(g.Bonds), g.Components)
	return err
}
