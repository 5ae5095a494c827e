package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/navigation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/resolver"
	"github.com/spf13/cobra"
)

func newShowCommand(withDeps depsWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the pinned navigation as the public site renders it",
		RunE: withDeps(func(cmd *cobra.Command, deps *Deps) error {
			nav := navigation.NewProvider(
				deps.Store,
				resolver.New(deps.Content, deps.Logger, nil),
				deps.Config.Curation.OptionKey,
			)

			entries, err := nav.Pinned(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "ID", "Title", "URL"})
			for i, e := range entries {
				t.AppendRow(table.Row{i + 1, e.ContentID, e.DisplayTitle, e.URL})
			}
			t.Render()
			return nil
		}),
	}
}
