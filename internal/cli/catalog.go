package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Faultbox/maptool/pkg/rotation"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the directional tiles rotate-tiles rewrites",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			renderCatalog(cmd, rotation.Default())
		},
	}
}

func renderCatalog(cmd *cobra.Command, catalog *rotation.Catalog) {
	w := cmd.OutOrStdout()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Prototype", "Canonical", "Quarter turns"})

	for _, e := range catalog.Entries() {
		t.AppendRow(table.Row{e.Prototype, e.Canonical, e.Delta})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d tiles)\n", catalog.Len())
}
