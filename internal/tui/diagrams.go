package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/n1rna/fossflow-cli/internal/collection"
)

// DiagramsModel lists saved diagrams
type DiagramsModel struct {
	records   []collection.Record
	currentID string
	cursor    int
}

// NewDiagramsModel creates an empty diagram list
func NewDiagramsModel() *DiagramsModel {
	return &DiagramsModel{}
}

// SetDiagrams replaces the list and marks the current diagram
func (m *DiagramsModel) SetDiagrams(records []collection.Record, currentID string) {
	m.records = records
	m.currentID = currentID
	if m.cursor >= len(records) {
		m.cursor = max(0, len(records)-1)
	}
}

// Init returns the initial command for the diagram list
func (m DiagramsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the diagram list
func (m DiagramsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}

		case "enter", " ":
			if m.cursor < len(m.records) {
				id := m.records[m.cursor].ID
				return m, func() tea.Msg { return LoadMsg{ID: id} }
			}

		case "d", "delete":
			if m.cursor < len(m.records) {
				id := m.records[m.cursor].ID
				return m, func() tea.Msg { return DeleteMsg{ID: id} }
			}
		}
	}

	return m, nil
}

// View renders the diagram list
func (m DiagramsModel) View() string {
	if len(m.records) == 0 {
		return noItemsStyle.Render("\nNo saved diagrams yet.\n\nUse 'Save As...' from the main menu to save the current diagram.")
	}

	s := "\nSaved diagrams:\n\n"
	for i, rec := range m.records {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s", cursor, rec.Name)
		if rec.ID == m.currentID {
			line += " (current)"
		}
		line += "  " + humanize.Time(rec.UpdatedAt)

		if m.cursor == i {
			s += selectedItemStyle.Render(line)
		} else {
			s += normalItemStyle.Render(line)
		}
		s += "\n"
	}
	return s
}
