package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel asks a yes/no question. No is selected by default.
type ConfirmModel struct {
	prompt string
	yes    bool
	answer func(bool) tea.Msg
}

// NewConfirmModel creates a confirmation dialog
func NewConfirmModel(prompt string, answer func(bool) tea.Msg) *ConfirmModel {
	return &ConfirmModel{prompt: prompt, answer: answer}
}

// Init returns the initial command
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dialog
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "y", "Y":
		return m, m.reply(true)
	case "n", "N", "esc":
		return m, m.reply(false)
	case "enter":
		return m, m.reply(m.yes)
	}
	return m, nil
}

func (m ConfirmModel) reply(v bool) tea.Cmd {
	return func() tea.Msg { return m.answer(v) }
}

// View renders the dialog
func (m ConfirmModel) View() string {
	yes, no := blurredButtonStyle.Render("Yes"), focusedButtonStyle.Render("No")
	if m.yes {
		yes, no = focusedButtonStyle.Render("Yes"), blurredButtonStyle.Render("No")
	}
	return "\n" + confirmPromptStyle.Render(m.prompt) + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no) + "\n"
}

var (
	confirmPromptStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	focusedButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("205")).
				Padding(0, 2)

	blurredButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)
)
