package command

import (
	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/icons"
)

// NewIconsCommand lists the bundled icon catalog.
func NewIconsCommand(groupId string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List the bundled icon catalog",
		Long: `List the icons assembled from the bundled packs.

With --minimal only the icons the diagramming component needs for
connectors and arrows are shown.`,
		Args:    cobra.NoArgs,
		RunE:    runIcons,
		GroupID: groupId,
	}

	cmd.Flags().Bool("minimal", false, "Show only the minimal essential subset")
	cmd.Flags().String("format", "table", "Output format (table, json)")

	return cmd
}

func runIcons(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := formatPrinter(cmd)
	if err != nil {
		return err
	}

	list := env.Catalog.Icons()
	if minimal, _ := cmd.Flags().GetBool("minimal"); minimal {
		list = icons.MinimalSubset(list)
	}
	return printer.PrintIcons(list)
}
