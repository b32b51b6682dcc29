package shell

import (
	"encoding/json"
	"fmt"

	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/usage"
)

const (
	importedTitle = "Imported Diagram"
	exportedTitle = "Exported Diagram"
)

// requestLocked replaces any earlier unresolved request.
func (s *Shell) requestLocked(kind ActionKind, target, prompt string) *PendingAction {
	if s.pending != nil {
		logger.Debug("discarding unresolved %s request", s.pending.Kind)
	}
	s.pending = &PendingAction{Kind: kind, Target: target, Prompt: prompt}
	p := *s.pending
	return &p
}

// Pending returns the action awaiting confirmation, if any.
func (s *Shell) Pending() (PendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return PendingAction{}, false
	}
	return *s.pending, true
}

// Resolve approves or cancels the pending action. Cancelling leaves the
// session untouched.
func (s *Shell) Resolve(approve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingAction
	}
	p := *s.pending
	s.pending = nil

	if !approve {
		logger.Debug("cancelled %s", p.Kind)
		return nil
	}

	switch p.Kind {
	case ActionLoad:
		rec, ok := s.diagrams.Find(p.Target)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, p.Target)
		}
		s.loadLocked(rec)
		return nil
	case ActionDelete:
		return s.deleteLocked(p.Target)
	case ActionNew:
		s.newLocked()
		return nil
	case ActionClearAll:
		return s.clearAllLocked()
	default:
		return fmt.Errorf("unknown action %q", p.Kind)
	}
}

// Import replaces the session with a diagram read from a JSON document.
// Malformed input leaves the session unchanged. The imported diagram is not
// tied to any saved record until it is saved.
func (s *Shell) Import(raw []byte) (diagram.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := diagram.Parse(raw)
	if err != nil {
		s.notifyLocked(Notice{Kind: NoticeError, Message: msgInvalidJSON})
		return diagram.Data{}, err
	}

	title := d.TitleOr(importedTitle)
	d.Title = diagram.String(title)
	if len(d.Colors) == 0 {
		d.Colors = diagram.DefaultColors()
	}
	d.FitToScreen = diagram.Bool(d.FitsToScreen())

	s.cancelAutoSaveLocked()
	s.model = s.adapter.Reattach(d)
	s.name = title
	s.current = nil
	s.dirty = true
	s.remount++

	logger.Info("imported diagram %q", title)
	s.notifyLocked(Notice{Kind: NoticeInfo, Message: fmt.Sprintf(msgImportedFormat, title)})
	return s.liveModel(), nil
}

// Export renders the current model with the full icon catalog embedded and
// clears the unsaved flag. Saved records are not touched.
func (s *Shell) Export() (diagram.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := s.name
	if title == "" {
		title = s.model.TitleOr(exportedTitle)
	}

	d := diagram.ExtractSavable(s.model)
	d.Title = diagram.String(title)
	d.Icons = s.adapter.Catalog()
	d.FitToScreen = diagram.Bool(true)

	content, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return diagram.File{}, fmt.Errorf("failed to marshal diagram: %w", err)
	}

	base := diagram.FileBase(s.name, "diagram")

	s.cancelAutoSaveLocked()
	s.dirty = false

	return diagram.File{
		Name:        fmt.Sprintf("%s-%s.json", base, s.now().UTC().Format("2006-01-02")),
		ContentType: "application/json",
		Content:     content,
	}, nil
}

// StorageReport returns the current storage usage.
func (s *Shell) StorageReport() (usage.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel.Report()
}

// ExportAll returns the stored diagrams collection as a backup file. The
// bool is false when nothing has been saved yet.
func (s *Shell) ExportAll() (diagram.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel.ExportAll(s.now())
}

// ClearAll asks to remove every stored diagram. It always needs
// confirmation.
func (s *Shell) ClearAll() *PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestLocked(ActionClearAll, "", promptClearAll)
}

func (s *Shell) clearAllLocked() error {
	if _, err := s.panel.ClearAll(); err != nil {
		return err
	}
	s.notifyLocked(Notice{Kind: NoticeInfo, Message: msgCleared})
	s.restoreLocked()
	return nil
}
