// fossflow keeps isometric diagrams in local storage and serves them to the
// browser-hosted editor.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/command"
	"github.com/n1rna/fossflow-cli/internal/config"
	"github.com/n1rna/fossflow-cli/internal/logger"
)

var (
	version     = "dev"
	cfgBaseDir  string
	globalFlags = struct {
		debug bool
	}{}
)

func main() {
	var env *command.Env

	rootCmd := &cobra.Command{
		Use:   "fossflow",
		Short: "fossflow - Isometric diagram storage and editor shell",
		Long: `fossflow manages isometric infrastructure diagrams: it saves, loads,
imports and exports them, tracks storage usage against a quota, and serves
an editing session to the browser-hosted diagramming component.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgBaseDir)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			if globalFlags.debug {
				level = logger.DEBUG
			}
			logger.SetGlobalLevel(level)

			env, err = command.NewEnv(cfg)
			if err != nil {
				return err
			}

			cmd.SetContext(command.WithEnv(cmd.Context(), env))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if env == nil {
				return nil
			}
			err := env.Close()
			env = nil
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgBaseDir, "dir", "",
		"Base directory for fossflow storage (default: $FOSSFLOW_HOME or ~/.fossflow)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug output")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "session",
		Title: "Editing Session:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "diagrams",
		Title: "Diagram Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "global",
		Title: "Global Commands:",
	})

	rootCmd.AddCommand(
		command.NewServeCommand("session"),
		command.NewUICommand("session"),
	)
	rootCmd.AddCommand(command.NewDiagramCommands("diagrams")...)
	rootCmd.AddCommand(
		command.NewExportCommand("diagrams"),
		command.NewIconsCommand("diagrams"),
		command.NewStorageCommand("global"),
		command.NewConfigCommand("global"),
	)

	rootCmd.SetVersionTemplate("fossflow version {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		if env != nil {
			env.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
