package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/shell"
)

// NoticeFeed is a shell Notifier that delivers notices to the bubbletea
// program, including those raised by auto-save on its own goroutine.
type NoticeFeed struct {
	ch chan shell.Notice
}

// NewNoticeFeed creates a feed with a small buffer
func NewNoticeFeed() *NoticeFeed {
	return &NoticeFeed{ch: make(chan shell.Notice, 32)}
}

// Notify never blocks; the shell calls it while holding its lock.
func (f *NoticeFeed) Notify(n shell.Notice) {
	select {
	case f.ch <- n:
	default:
		logger.Warn("dropping notice %q: feed is full", n.Message)
	}
}

// Wait returns a command that yields the next notice
func (f *NoticeFeed) Wait() tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(<-f.ch)
	}
}
