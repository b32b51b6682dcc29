package shell

import (
	"errors"
	"time"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/diagram"
)

var (
	// ErrBlankName is returned by Save when the name is empty or whitespace.
	ErrBlankName = errors.New("diagram name is required")

	// ErrNotFound is returned when no saved diagram matches an id or name.
	ErrNotFound = errors.New("diagram not found")

	// ErrNoPendingAction is returned by Resolve when nothing awaits
	// confirmation.
	ErrNoPendingAction = errors.New("no action awaiting confirmation")

	// ErrNothingToSave is returned by QuickSave when there is no backing
	// record or no unsaved change.
	ErrNothingToSave = errors.New("nothing to save")

	// ErrNotPersisted means the session was updated but storage rejected
	// the write. The notifier has already been told.
	ErrNotPersisted = errors.New("changes kept in memory but not persisted")
)

// State is the session state of the current diagram.
type State int

const (
	// StateEmpty means there is no current diagram.
	StateEmpty State = iota
	// StateNamedUnsaved means there are changes not yet in a saved record.
	StateNamedUnsaved
	// StateNamedSaved means the session matches its saved record.
	StateNamedSaved
)

func (s State) String() string {
	switch s {
	case StateNamedUnsaved:
		return "named-unsaved"
	case StateNamedSaved:
		return "named-saved"
	default:
		return "empty"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ActionKind names an operation that waits for user confirmation.
type ActionKind string

const (
	ActionLoad     ActionKind = "load"
	ActionDelete   ActionKind = "delete"
	ActionNew      ActionKind = "new"
	ActionClearAll ActionKind = "clear-all"
)

// PendingAction is a destructive operation awaiting approval. Target is the
// record id for load and delete.
type PendingAction struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target,omitempty"`
	Prompt string     `json:"prompt"`
}

// Snapshot is a copy of the session for rendering.
type Snapshot struct {
	Model        diagram.Data       `json:"data"`
	RemountToken uint64             `json:"remountToken"`
	Name         string             `json:"name"`
	Current      *collection.Record `json:"current,omitempty"`
	State        State              `json:"state"`
	Unsaved      bool               `json:"unsaved"`
	LastAutoSave *time.Time         `json:"lastAutoSave,omitempty"`
}

// Prompts shown for confirmations and the unload guard.
const (
	promptLoadUnsaved = "You have unsaved changes. Continue loading?"
	promptDelete      = "Are you sure you want to delete this diagram?"
	promptNewUnsaved  = "You have unsaved changes. Export your diagram first to save it. Continue?"
	promptClearAll    = "This will remove all saved diagrams. Are you sure?"
	promptUnload      = "You have unsaved changes. Are you sure you want to leave?"
)
