package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/output"
)

type ExportCommand struct{}

func NewExportCommand(groupId string) *cobra.Command {
	ec := &ExportCommand{}

	cmd := &cobra.Command{
		Use:   "export [name-or-id]",
		Short: "Export a saved diagram as a self-contained JSON file",
		Long: `Export a saved diagram with the full icon catalog embedded, so the file
opens anywhere without the bundled icon packs.

Without an argument the last opened diagram is exported.
The file is named <name>-<YYYY-MM-DD>.json unless --output names a file.`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    ec.Run,
		GroupID: groupId,
	}

	cmd.Flags().StringP("output", "o", ".", "Output directory or file path")
	cmd.Flags().Bool("stdout", false, "Write the JSON to stdout instead of a file")
	cmd.Flags().Bool("quiet", false, "Suppress non-error output")

	return cmd
}

func (c *ExportCommand) Run(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.ErrOrStderr(), output.FormatTable, quiet)

	sh := env.Shell(noticePrinter(cmd))
	if len(args) == 1 {
		pending, err := sh.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load diagram: %w", err)
		}
		// A fresh session has nothing unsaved to lose.
		if _, err := resolvePending(sh, pending, true); err != nil {
			return err
		}
	}

	file, err := sh.Export()
	if err != nil {
		return fmt.Errorf("failed to export diagram: %w", err)
	}

	if toStdout {
		_, err := cmd.OutOrStdout().Write(file.Content)
		return err
	}

	path, err := file.Save(out)
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Exported to %s", path))
	return nil
}
