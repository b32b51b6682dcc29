package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/output"
)

// NewStorageCommand creates the storage manager command tree.
func NewStorageCommand(groupId string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "storage",
		Short:   "Inspect and manage diagram storage",
		GroupID: groupId,
	}

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show how much of the storage quota is used",
		Args:  cobra.NoArgs,
		RunE:  runStorageUsage,
	}
	usageCmd.Flags().String("format", "table", "Output format (table, json)")

	exportAll := &cobra.Command{
		Use:   "export-all",
		Short: "Back up every saved diagram to a single JSON file",
		Args:  cobra.NoArgs,
		RunE:  runStorageExportAll,
	}
	exportAll.Flags().StringP("output", "o", ".", "Output directory or file path")
	exportAll.Flags().Bool("quiet", false, "Suppress non-error output")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove all fossflow data from storage",
		Long: `Remove every storage entry written by fossflow: saved diagrams, the last
opened diagram and any temporary data. This cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: runStorageClear,
	}
	clear.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	clear.Flags().Bool("quiet", false, "Suppress non-error output")

	cmd.AddCommand(usageCmd, exportAll, clear)
	return cmd
}

func runStorageUsage(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := formatPrinter(cmd)
	if err != nil {
		return err
	}

	report, err := env.Shell(noticePrinter(cmd)).StorageReport()
	if err != nil {
		return fmt.Errorf("failed to compute storage usage: %w", err)
	}
	return printer.PrintUsage(report)
}

func runStorageExportAll(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	file, ok := env.Shell(noticePrinter(cmd)).ExportAll()
	if !ok {
		printer.Info("No saved diagrams to export")
		return nil
	}

	path, err := file.Save(out)
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Backed up diagrams to %s", path))
	return nil
}

func runStorageClear(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	sh := env.Shell(noticePrinter(cmd))
	done, err := resolvePending(sh, sh.ClearAll(), yes)
	if err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	if !done {
		printer.Info("Cancelled")
	}
	return nil
}
