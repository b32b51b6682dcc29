package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/n1rna/fossflow-cli/internal/output"
)

// NewConfigCommand creates the config command tree.
func NewConfigCommand(groupId string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage fossflow configuration",
		GroupID: groupId,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to config.yaml",
		Long: `Write the effective configuration (defaults, file and FOSSFLOW_*
environment overrides) to config.yaml in the base directory.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("quiet", false, "Suppress non-error output")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	path := env.Config.Path()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	if err := env.Config.Save(path); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Wrote %s", path))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(env.Config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
