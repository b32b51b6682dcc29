// Package tui provides a terminal user interface for fossflow
package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/shell"
	"github.com/n1rna/fossflow-cli/internal/usage"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	MainMenuView ViewState = iota
	DiagramsView
	SaveView
	ImportView
	ExportView
	StorageView
	ConfirmView
)

// maxNotices is how many recent notices the footer keeps.
const maxNotices = 3

// Model represents the main TUI application state
type Model struct {
	// Navigation
	currentView ViewState
	width       int
	height      int

	shell *shell.Shell
	feed  *NoticeFeed

	// State
	loading      bool
	error        string
	status       string
	notices      []shell.Notice
	offerStorage bool

	// Views
	mainMenu     *MainMenuModel
	diagramsView *DiagramsModel
	promptView   *PromptModel
	storageView  *StorageModel
	confirmView  *ConfirmModel
}

// NewModel creates a TUI model driving sh. feed must be the Notifier sh was
// built with.
func NewModel(sh *shell.Shell, feed *NoticeFeed) *Model {
	return &Model{
		currentView:  MainMenuView,
		shell:        sh,
		feed:         feed,
		mainMenu:     NewMainMenuModel(),
		diagramsView: NewDiagramsModel(),
		storageView:  NewStorageModel(),
	}
}

// Init starts listening for shell notices
func (m Model) Init() tea.Cmd {
	return m.feed.Wait()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.requestQuit()

		case "q":
			switch m.currentView {
			case MainMenuView:
				return m.requestQuit()
			case DiagramsView, StorageView:
				m.currentView = MainMenuView
				m.error = ""
				return m, nil
			}

		case "esc":
			switch m.currentView {
			case ConfirmView:
				// answered by the confirm view
			default:
				m.currentView = MainMenuView
				m.error = ""
				return m, nil
			}

		case "s":
			if m.offerStorage && (m.currentView == MainMenuView || m.currentView == DiagramsView) {
				m.offerStorage = false
				return m, navigate(StorageView)
			}
		}

	case NoticeMsg:
		n := shell.Notice(msg)
		m.notices = append(m.notices, n)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		if n.OpenStorage {
			m.offerStorage = true
		}
		return m, m.feed.Wait()

	case ErrorMsg:
		m.loading = false
		m.error = string(msg)

	case DoneMsg:
		m.loading = false
		m.error = ""
		m.status = msg.Status
		m.currentView = msg.Next
		cmds = append(cmds, m.enterView(msg.Next))

	case NavigateMsg:
		m.currentView = ViewState(msg)
		m.error = ""
		cmds = append(cmds, m.enterView(m.currentView))

	case DiagramsLoadedMsg:
		m.loading = false
		m.diagramsView.SetDiagrams([]collection.Record(msg), m.currentID())

	case StorageLoadedMsg:
		m.loading = false
		m.storageView.SetReport(usage.Report(msg))

	case PendingMsg:
		m.loading = false
		m.confirmView = NewConfirmModel(msg.Action.Prompt, func(approve bool) tea.Msg {
			return ResolveMsg{Approve: approve, Kind: msg.Action.Kind, Return: msg.Return}
		})
		m.currentView = ConfirmView

	case ResolveMsg:
		m.loading = true
		cmds = append(cmds, m.resolve(msg))

	case LoadMsg:
		m.loading = true
		cmds = append(cmds, m.load(msg.ID))

	case DeleteMsg:
		m.loading = true
		cmds = append(cmds, m.delete(msg.ID))

	case SaveMsg:
		m.loading = true
		cmds = append(cmds, m.save(msg.Name))

	case QuickSaveMsg:
		m.loading = true
		cmds = append(cmds, m.quickSave())

	case NewDiagramMsg:
		cmds = append(cmds, m.newDiagram())

	case ImportMsg:
		m.loading = true
		cmds = append(cmds, m.importFile(msg.Path))

	case ExportMsg:
		m.loading = true
		cmds = append(cmds, m.exportFile(msg.Dir))

	case ExportAllMsg:
		m.loading = true
		cmds = append(cmds, m.exportAll(msg.Dir))

	case ClearAllMsg:
		pending := m.shell.ClearAll()
		return m, func() tea.Msg { return PendingMsg{Action: *pending, Return: StorageView} }

	case ExitMsg:
		return m.requestQuit()

	case QuitMsg:
		return m, tea.Quit
	}

	// Update current view
	switch m.currentView {
	case MainMenuView:
		var mainMenuModel tea.Model
		mainMenuModel, cmd = m.mainMenu.Update(msg)
		if mm, ok := mainMenuModel.(MainMenuModel); ok {
			m.mainMenu = &mm
		}
		cmds = append(cmds, cmd)

	case DiagramsView:
		var diagramsModel tea.Model
		diagramsModel, cmd = m.diagramsView.Update(msg)
		if dm, ok := diagramsModel.(DiagramsModel); ok {
			m.diagramsView = &dm
		}
		cmds = append(cmds, cmd)

	case SaveView, ImportView, ExportView:
		if m.promptView != nil {
			var promptModel tea.Model
			promptModel, cmd = m.promptView.Update(msg)
			if pm, ok := promptModel.(PromptModel); ok {
				m.promptView = &pm
			}
			cmds = append(cmds, cmd)
		}

	case StorageView:
		var storageModel tea.Model
		storageModel, cmd = m.storageView.Update(msg)
		if sm, ok := storageModel.(StorageModel); ok {
			m.storageView = &sm
		}
		cmds = append(cmds, cmd)

	case ConfirmView:
		if m.confirmView != nil {
			var confirmModel tea.Model
			confirmModel, cmd = m.confirmView.Update(msg)
			if cm, ok := confirmModel.(ConfirmModel); ok {
				m.confirmView = &cm
			}
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// enterView resets forms and starts loading data for v.
func (m *Model) enterView(v ViewState) tea.Cmd {
	switch v {
	case DiagramsView:
		m.loading = true
		return m.loadDiagrams()
	case StorageView:
		m.loading = true
		return m.loadStorage()
	case SaveView:
		name := m.shell.Snapshot().Name
		m.promptView = NewPromptModel("Save diagram", "Name: ", "Enter diagram name", name, func(v string) tea.Msg {
			return SaveMsg{Name: v}
		})
		return m.promptView.Init()
	case ImportView:
		m.promptView = NewPromptModel("Import diagram", "File: ", "Path to a diagram JSON file", "", func(v string) tea.Msg {
			return ImportMsg{Path: v}
		})
		return m.promptView.Init()
	case ExportView:
		m.promptView = NewPromptModel("Export diagram", "Directory: ", "Where to write the file", ".", func(v string) tea.Msg {
			return ExportMsg{Dir: v}
		})
		return m.promptView.Init()
	}
	return nil
}

// requestQuit asks before leaving a session with unsaved changes.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	prompt, ask := m.shell.BeforeUnload()
	if !ask || m.currentView == ConfirmView {
		return m, tea.Quit
	}
	back := m.currentView
	m.confirmView = NewConfirmModel(prompt, func(leave bool) tea.Msg {
		if leave {
			return QuitMsg{}
		}
		return NavigateMsg(back)
	})
	m.currentView = ConfirmView
	return m, nil
}

func (m Model) currentID() string {
	if cur := m.shell.Snapshot().Current; cur != nil {
		return cur.ID
	}
	return ""
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	// Header
	header := m.headerView()

	// Content based on current view
	switch m.currentView {
	case MainMenuView:
		content = m.mainMenu.View()
	case DiagramsView:
		if m.loading {
			content = "Loading diagrams..."
		} else {
			content = m.diagramsView.View()
		}
	case SaveView, ImportView, ExportView:
		if m.loading {
			content = "Working..."
		} else if m.promptView != nil {
			content = m.promptView.View()
		}
	case StorageView:
		if m.loading {
			content = "Calculating storage usage..."
		} else {
			content = m.storageView.View()
		}
	case ConfirmView:
		if m.confirmView != nil {
			content = m.confirmView.View()
		}
	default:
		content = "View not implemented"
	}

	if m.error != "" {
		content += "\n" + errorStyle.Render("Error: "+m.error)
	} else if m.status != "" {
		content += "\n" + statusStyle.Render(m.status)
	}

	return header + "\n" + content + "\n" + m.noticesView() + m.footerView()
}

// headerView renders the application header with the session state
func (m Model) headerView() string {
	title := titleStyle.Render("fossflow")

	snap := m.shell.Snapshot()
	session := "No diagram"
	if snap.Name != "" {
		session = snap.Name
	}
	switch snap.State {
	case shell.StateNamedSaved:
		session += " (saved)"
	case shell.StateNamedUnsaved:
		session += " " + unsavedStyle.Render("(unsaved changes)")
	}
	if snap.LastAutoSave != nil {
		session += subtitleStyle.Render(" • auto-saved " + snap.LastAutoSave.Format("15:04:05"))
	}

	var subtitle string
	switch m.currentView {
	case MainMenuView:
		subtitle = "Main Menu"
	case DiagramsView:
		subtitle = "Saved Diagrams"
	case SaveView:
		subtitle = "Save"
	case ImportView:
		subtitle = "Import"
	case ExportView:
		subtitle = "Export"
	case StorageView:
		subtitle = "Storage Manager"
	case ConfirmView:
		subtitle = "Confirm"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, session, subtitleStyle.Render(subtitle))
}

func (m Model) noticesView() string {
	if len(m.notices) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range m.notices {
		style := infoNoticeStyle
		switch n.Kind {
		case shell.NoticeWarning:
			style = warningNoticeStyle
		case shell.NoticeError:
			style = errorStyle
		}
		b.WriteString(style.Render("• "+n.Message) + "\n")
	}
	return b.String()
}

// footerView renders the application footer with help
func (m Model) footerView() string {
	help := ""
	switch m.currentView {
	case MainMenuView:
		help = "↑/↓: navigate • enter: select • q: quit"
	case DiagramsView:
		help = "↑/↓: navigate • enter: open • d: delete • esc: back"
	case SaveView, ImportView, ExportView:
		help = "enter: submit • esc: cancel"
	case StorageView:
		help = "e: export all • c: clear all • r: refresh • esc: back"
	case ConfirmView:
		help = "y/n or ←/→ + enter • esc: cancel"
	}
	if m.offerStorage && (m.currentView == MainMenuView || m.currentView == DiagramsView) {
		help += " • s: open storage manager"
	}

	return helpStyle.Render(help)
}

func navigate(v ViewState) tea.Cmd {
	return func() tea.Msg { return NavigateMsg(v) }
}

// loadDiagrams creates a command to list saved diagrams
func (m Model) loadDiagrams() tea.Cmd {
	return func() tea.Msg {
		return DiagramsLoadedMsg(m.shell.Diagrams())
	}
}

// loadStorage creates a command to compute storage usage
func (m Model) loadStorage() tea.Cmd {
	return func() tea.Msg {
		report, err := m.shell.StorageReport()
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to read storage usage: %v", err))
		}
		return StorageLoadedMsg(report)
	}
}

func (m Model) load(id string) tea.Cmd {
	return func() tea.Msg {
		pending, err := m.shell.Load(id)
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to load diagram: %v", err))
		}
		if pending != nil {
			return PendingMsg{Action: *pending, Return: DiagramsView}
		}
		return DoneMsg{Status: "Loaded " + m.shell.Snapshot().Name, Next: MainMenuView}
	}
}

func (m Model) delete(id string) tea.Cmd {
	return func() tea.Msg {
		pending, err := m.shell.Delete(id)
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to delete diagram: %v", err))
		}
		return PendingMsg{Action: *pending, Return: DiagramsView}
	}
}

func (m Model) save(name string) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.shell.Save(name)
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to save diagram: %v", err))
		}
		return DoneMsg{Status: fmt.Sprintf("Saved %q", rec.Name), Next: MainMenuView}
	}
}

func (m Model) quickSave() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.shell.QuickSave()
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Quick save: %v", err))
		}
		return DoneMsg{Status: fmt.Sprintf("Saved %q", rec.Name), Next: MainMenuView}
	}
}

func (m Model) newDiagram() tea.Cmd {
	return func() tea.Msg {
		if pending := m.shell.NewDiagram(); pending != nil {
			return PendingMsg{Action: *pending, Return: MainMenuView}
		}
		return DoneMsg{Status: "Started a new diagram", Next: MainMenuView}
	}
}

func (m Model) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to read %s: %v", path, err))
		}
		// The shell reports malformed files as a notice.
		if _, err := m.shell.Import(raw); err != nil {
			return DoneMsg{Next: ImportView}
		}
		return DoneMsg{Next: MainMenuView}
	}
}

func (m Model) exportFile(dir string) tea.Cmd {
	return func() tea.Msg {
		file, err := m.shell.Export()
		if err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to export diagram: %v", err))
		}
		path, err := file.Save(dir)
		if err != nil {
			return ErrorMsg(err.Error())
		}
		return DoneMsg{Status: "Exported to " + path, Next: MainMenuView}
	}
}

func (m Model) exportAll(dir string) tea.Cmd {
	return func() tea.Msg {
		file, ok := m.shell.ExportAll()
		if !ok {
			return DoneMsg{Status: "No saved diagrams to export", Next: StorageView}
		}
		path, err := file.Save(dir)
		if err != nil {
			return ErrorMsg(err.Error())
		}
		return DoneMsg{Status: "Backed up diagrams to " + path, Next: StorageView}
	}
}

func (m Model) resolve(msg ResolveMsg) tea.Cmd {
	return func() tea.Msg {
		if err := m.shell.Resolve(msg.Approve); err != nil {
			return ErrorMsg(fmt.Sprintf("Failed to %s: %v", msg.Kind, err))
		}
		if !msg.Approve {
			return DoneMsg{Status: "Cancelled", Next: msg.Return}
		}
		switch msg.Kind {
		case shell.ActionLoad:
			return DoneMsg{Status: "Loaded " + m.shell.Snapshot().Name, Next: MainMenuView}
		case shell.ActionNew:
			return DoneMsg{Status: "Started a new diagram", Next: MainMenuView}
		case shell.ActionDelete:
			return DoneMsg{Status: "Diagram deleted", Next: DiagramsView}
		default:
			return DoneMsg{Next: msg.Return}
		}
	}
}

// Custom messages
type DiagramsLoadedMsg []collection.Record
type StorageLoadedMsg usage.Report
type NoticeMsg shell.Notice
type ErrorMsg string
type NavigateMsg ViewState

// DoneMsg reports a finished action and the view to show next
type DoneMsg struct {
	Status string
	Next   ViewState
}

// PendingMsg asks the user to confirm a shell action
type PendingMsg struct {
	Action shell.PendingAction
	Return ViewState
}

// ResolveMsg carries the answer to a PendingMsg
type ResolveMsg struct {
	Approve bool
	Kind    shell.ActionKind
	Return  ViewState
}

type LoadMsg struct{ ID string }
type DeleteMsg struct{ ID string }
type SaveMsg struct{ Name string }
type ImportMsg struct{ Path string }
type ExportMsg struct{ Dir string }
type ExportAllMsg struct{ Dir string }
type QuickSaveMsg struct{}
type NewDiagramMsg struct{}
type ClearAllMsg struct{}
type QuitMsg struct{}

// ExitMsg leaves the TUI, asking first when there are unsaved changes
type ExitMsg struct{}

// Styles
var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unsavedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoNoticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warningNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)
