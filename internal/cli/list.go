package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/spf13/cobra"
)

// operator is the principal pinctl acts as.
var operator = curation.Principal{
	Subject:      "pinctl",
	Capabilities: []string{curation.CapabilityEditNavigation},
}

func newListCommand(withDeps depsWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored pinned items with their live status",
		RunE: withDeps(func(cmd *cobra.Command, deps *Deps) error {
			svc := curation.NewService(deps.Content, nil, deps.Store, curation.Config{
				OptionKey: deps.Config.Curation.OptionKey,
			}, deps.Logger, nil)

			items, revision, err := svc.Current(cmd.Context(), operator)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "ID", "Title", "Override", "Type", "Status", "Renders"})
			for i, item := range items {
				t.AppendRow(table.Row{
					i + 1,
					item.ID,
					item.Title,
					item.CustomTitle,
					item.Type,
					item.Status,
					yesNo(item.Available),
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "", "revision", revision})
			t.Render()
			return nil
		}),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
