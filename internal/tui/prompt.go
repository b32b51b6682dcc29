package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptModel is a single-field form
type PromptModel struct {
	title  string
	input  textinput.Model
	submit func(string) tea.Msg
}

// NewPromptModel creates a focused form prefilled with value. submit turns
// the trimmed input into the message sent on enter.
func NewPromptModel(title, prompt, placeholder, value string, submit func(string) tea.Msg) *PromptModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = prompt
	input.CharLimit = 255
	input.Width = 50
	input.SetValue(value)
	input.Focus()

	return &PromptModel{title: title, input: input, submit: submit}
}

// Init returns the initial command
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		// Blank names are reported by the shell, paths are checked here.
		value := strings.TrimSpace(m.input.Value())
		return m, func() tea.Msg { return m.submit(value) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the current input
func (m PromptModel) Value() string {
	return m.input.Value()
}

// View renders the form
func (m PromptModel) View() string {
	return "\n" + promptTitleStyle.Render(m.title) + "\n\n" + m.input.View() + "\n"
}

var promptTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("205"))
