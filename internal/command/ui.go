package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/tui"
)

// NewUICommand creates the UI command
func NewUICommand(groupId string) *cobra.Command {
	return &cobra.Command{
		Use:     "ui",
		Short:   "Launch interactive terminal interface",
		Long:    "Launch the fossflow terminal interface for saving, loading, importing and exporting diagrams and managing storage.",
		Args:    cobra.NoArgs,
		RunE:    runUI,
		GroupID: groupId,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	if err := logger.RedirectToFile(env.Config.LogPath()); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	feed := tui.NewNoticeFeed()
	model := tui.NewModel(env.Shell(feed), feed)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
