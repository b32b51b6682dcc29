package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n1rna/fossflow-cli/internal/usage"
)

const barWidth = 40

// StorageModel shows storage usage and the bulk actions
type StorageModel struct {
	report usage.Report
	loaded bool
}

// NewStorageModel creates the storage manager view
func NewStorageModel() *StorageModel {
	return &StorageModel{}
}

// SetReport updates the displayed usage
func (m *StorageModel) SetReport(r usage.Report) {
	m.report = r
	m.loaded = true
}

// Init returns the initial command
func (m StorageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the storage manager
func (m StorageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "e":
			return m, func() tea.Msg { return ExportAllMsg{Dir: "."} }
		case "c":
			return m, func() tea.Msg { return ClearAllMsg{} }
		case "r":
			return m, navigate(StorageView)
		}
	}
	return m, nil
}

// View renders usage with a colored bar
func (m StorageModel) View() string {
	if !m.loaded {
		return noItemsStyle.Render("\nNo usage information.")
	}

	r := m.report
	filled := r.BarWidth(barWidth)
	bar := levelStyle(r.Level()).Render(strings.Repeat("█", filled)) +
		emptyBarStyle.Render(strings.Repeat("░", barWidth-filled))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(bar + fmt.Sprintf(" %.1f%%\n\n", r.Percent()))
	b.WriteString(fmt.Sprintf("Used:     %s of %s\n", usage.FormatBytes(r.Used), usage.FormatBytes(r.Capacity)))
	b.WriteString(fmt.Sprintf("Diagrams: %s\n", usage.FormatBytes(r.Diagrams)))
	b.WriteString(fmt.Sprintf("Other:    %s\n", usage.FormatBytes(r.Other)))

	switch r.Level() {
	case usage.LevelCritical:
		b.WriteString("\n" + levelStyle(usage.LevelCritical).Render("Storage is almost full. Export your diagrams and clear space."))
	case usage.LevelWarning:
		b.WriteString("\n" + levelStyle(usage.LevelWarning).Render("Storage is filling up."))
	}
	b.WriteString("\n")
	return b.String()
}

func levelStyle(l usage.Level) lipgloss.Style {
	switch l {
	case usage.LevelCritical:
		return criticalStyle
	case usage.LevelWarning:
		return warningStyle
	default:
		return okStyle
	}
}

var (
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	emptyBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)
