// Package command contains CLI command implementations.
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/output"
)

// DiagramCommand groups the one-shot commands that operate on saved
// diagrams.
type DiagramCommand struct{}

// NewDiagramCommands creates list, show, import and delete.
func NewDiagramCommands(groupId string) []*cobra.Command {
	dc := &DiagramCommand{}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved diagrams",
		Args:    cobra.NoArgs,
		RunE:    dc.runList,
		GroupID: groupId,
	}
	list.Flags().String("format", "table", "Output format (table, json)")

	show := &cobra.Command{
		Use:     "show [name-or-id]",
		Short:   "Show details of a saved diagram",
		Args:    cobra.ExactArgs(1),
		RunE:    dc.runShow,
		GroupID: groupId,
	}
	show.Flags().String("format", "table", "Output format (table, json)")

	imp := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a diagram JSON file and save it",
		Long: `Import a diagram exported from fossflow (or any JSON file with the same shape)
and save it to the collection.

Icons in the file are ignored; the bundled icon catalog is always used.
A file without colors gets the default palette.

Examples:
  fossflow import network.json
  fossflow import network.json --name "Network Topology"`,
		Args:    cobra.ExactArgs(1),
		RunE:    dc.runImport,
		GroupID: groupId,
	}
	imp.Flags().String("name", "", "Name to save under (default: the diagram title)")
	imp.Flags().Bool("quiet", false, "Suppress non-error output")

	del := &cobra.Command{
		Use:     "delete [name-or-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a saved diagram",
		Args:    cobra.ExactArgs(1),
		RunE:    dc.runDelete,
		GroupID: groupId,
	}
	del.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	del.Flags().Bool("quiet", false, "Suppress non-error output")

	return []*cobra.Command{list, show, imp, del}
}

func (c *DiagramCommand) runList(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := formatPrinter(cmd)
	if err != nil {
		return err
	}
	return printer.PrintDiagramList(env.Shell(noticePrinter(cmd)).Diagrams())
}

func (c *DiagramCommand) runShow(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := formatPrinter(cmd)
	if err != nil {
		return err
	}

	rec, ok := env.Shell(noticePrinter(cmd)).Find(args[0])
	if !ok {
		return fmt.Errorf("diagram %q not found", args[0])
	}
	return printer.PrintDiagram(rec)
}

func (c *DiagramCommand) runImport(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	sh := env.Shell(noticePrinter(cmd))
	if _, err := sh.Import(raw); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	if name == "" {
		name = sh.Snapshot().Name
	}

	rec, err := sh.Save(name)
	if err != nil {
		return fmt.Errorf("failed to save imported diagram: %w", err)
	}
	printer.Success(fmt.Sprintf("Saved %q (%s)", rec.Name, rec.ID))
	return nil
}

func (c *DiagramCommand) runDelete(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	sh := env.Shell(noticePrinter(cmd))
	rec, ok := sh.Find(args[0])
	if !ok {
		return fmt.Errorf("diagram %q not found", args[0])
	}

	pending, err := sh.Delete(rec.ID)
	if err != nil {
		return err
	}
	done, err := resolvePending(sh, pending, yes)
	if err != nil {
		return fmt.Errorf("failed to delete diagram: %w", err)
	}
	if !done {
		printer.Info("Cancelled")
		return nil
	}

	printer.Success(fmt.Sprintf("Deleted %q", rec.Name))
	return nil
}

// formatPrinter builds a stdout printer from the --format flag.
func formatPrinter(cmd *cobra.Command) (*output.Printer, error) {
	value, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(value)
	if err != nil {
		return nil, err
	}
	return output.NewPrinterWithWriter(cmd.OutOrStdout(), format, false), nil
}

// noticePrinter reports shell notices on stderr so stdout stays parseable.
func noticePrinter(cmd *cobra.Command) *output.Printer {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return output.NewPrinterWithWriter(cmd.ErrOrStderr(), output.FormatTable, quiet)
}
