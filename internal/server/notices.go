package server

import (
	"sync"

	"github.com/n1rna/fossflow-cli/internal/shell"
)

const maxQueuedNotices = 100

// Notices queues shell notices until the front-end polls for them. When the
// queue is full the oldest notice is dropped.
type Notices struct {
	mu    sync.Mutex
	queue []shell.Notice
}

// NewNotices creates an empty queue.
func NewNotices() *Notices {
	return &Notices{}
}

// Notify implements shell.Notifier.
func (n *Notices) Notify(notice shell.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.queue) >= maxQueuedNotices {
		n.queue = n.queue[1:]
	}
	n.queue = append(n.queue, notice)
}

// Drain returns and clears the queued notices, oldest first.
func (n *Notices) Drain() []shell.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.queue
	n.queue = nil
	if out == nil {
		out = []shell.Notice{}
	}
	return out
}
