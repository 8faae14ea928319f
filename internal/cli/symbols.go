package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/interop-desk/mcpgate/pkg/symbols"
)

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "Print the symbol mapping table",
		Run: func(cmd *cobra.Command, _ []string) {
			t := symbols.Default()

			companies := table.NewWriter()
			companies.SetOutputMirror(cmd.OutOrStdout())
			companies.SetTitle("Companies")
			companies.AppendHeader(table.Row{"Name", "Ticker"})
			for _, c := range t.Companies() {
				companies.AppendRow(table.Row{c.Name, c.Ticker})
			}
			companies.Render()

			fx := table.NewWriter()
			fx.SetOutputMirror(cmd.OutOrStdout())
			fx.SetTitle("FX Aliases")
			fx.AppendHeader(table.Row{"Alias", "Pair"})
			for _, a := range t.FXAliases() {
				fx.AppendRow(table.Row{a.Alias, a.Pair})
			}
			fx.Render()
		},
	}
}
