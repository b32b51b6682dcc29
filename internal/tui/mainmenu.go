package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label string
	msg   tea.Msg
}

// MainMenuModel represents the main menu state
type MainMenuModel struct {
	items  []menuItem
	cursor int
}

// NewMainMenuModel creates a new main menu model
func NewMainMenuModel() *MainMenuModel {
	return &MainMenuModel{
		items: []menuItem{
			{"Saved Diagrams", NavigateMsg(DiagramsView)},
			{"Save As...", NavigateMsg(SaveView)},
			{"Quick Save", QuickSaveMsg{}},
			{"New Diagram", NewDiagramMsg{}},
			{"Import", NavigateMsg(ImportView)},
			{"Export", NavigateMsg(ExportView)},
			{"Storage Manager", NavigateMsg(StorageView)},
			{"Exit", ExitMsg{}},
		},
	}
}

// Init returns the initial command for the main menu
func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the main menu
func (m MainMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case "enter", " ":
			item := m.items[m.cursor]
			return m, func() tea.Msg { return item.msg }
		}
	}

	return m, nil
}

// View renders the main menu
func (m MainMenuModel) View() string {
	s := "\nChoose an option:\n\n"

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := cursor + " " + item.label
		if m.cursor == i {
			s += selectedItemStyle.Render(line)
		} else {
			s += normalItemStyle.Render(line)
		}
		s += "\n"
	}

	return s
}

// Styles for lists
var (
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noItemsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)
