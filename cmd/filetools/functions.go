package main

import (
	"github.com/nicad/duckdb-file-tools/internal/report"
	"github.com/spf13/cobra"
)

func functionsCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List every registered function with its signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &report.Table{
				Columns: []report.Column{{Name: "name"}, {Name: "kind"}, {Name: "signature"}},
			}
			if verbose {
				t.Columns = append(t.Columns, report.Column{Name: "description"})
			}

			for _, info := range a.registry.Functions() {
				row := []any{info.Name, string(info.Kind), info.Signature}
				if verbose {
					row = append(row, info.Description)
				}
				t.Rows = append(t.Rows, row)
			}
			return a.emit(t)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "long", "l", false, "Include descriptions")
	return cmd
}
