// Package shell manages a single diagram editing session: the current model,
// its saved record, confirmations for destructive actions, debounced
// auto-save and import/export.
//
// Every exported method is safe for concurrent use. Operations are
// serialized by one mutex, so the auto-save timer and concurrent HTTP
// requests observe the same ordering as a single event loop.
package shell

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/icons"
	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/persist"
	"github.com/n1rna/fossflow-cli/internal/storage"
	"github.com/n1rna/fossflow-cli/internal/usage"
)

// DefaultAutoSaveDelay is how long the model must stay unchanged before an
// auto-save runs.
const DefaultAutoSaveDelay = 5 * time.Second

// Options configures a Shell. Accessor and Catalog are required.
type Options struct {
	Accessor      *storage.Accessor
	Catalog       *icons.Catalog
	Capacity      int64
	AutoSaveDelay time.Duration
	Notifier      Notifier
	Scheduler     Scheduler
	Now           func() time.Time
}

// Shell is the diagram collection manager.
type Shell struct {
	mu sync.Mutex

	accessor  *storage.Accessor
	adapter   *persist.Adapter
	panel     *usage.Panel
	notifier  Notifier
	scheduler Scheduler
	now       func() time.Time
	delay     time.Duration

	diagrams     *collection.Collection
	model        diagram.Data
	name         string
	current      *collection.Record
	dirty        bool
	remount      uint64
	lastAutoSave time.Time
	pending      *PendingAction

	timer  Timer
	gen    uint64
	closed bool
}

// New creates a shell and restores the last opened diagram from storage.
func New(opts Options) *Shell {
	s := &Shell{
		accessor:  opts.Accessor,
		adapter:   persist.NewAdapter(opts.Catalog),
		panel:     usage.NewPanel(opts.Accessor, opts.Capacity),
		notifier:  opts.Notifier,
		scheduler: opts.Scheduler,
		now:       opts.Now,
		delay:     opts.AutoSaveDelay,
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	if s.scheduler == nil {
		s.scheduler = realScheduler{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.delay <= 0 {
		s.delay = DefaultAutoSaveDelay
	}

	s.restoreLocked()
	return s
}

// restoreLocked resets the session and reloads it from storage: the
// collection, then the last opened diagram if both of its keys exist.
func (s *Shell) restoreLocked() {
	s.cancelAutoSaveLocked()
	s.diagrams = s.readCollectionLocked()
	s.model = s.adapter.Reattach(diagram.New())
	s.name = ""
	s.current = nil
	s.dirty = false
	s.pending = nil
	s.remount++

	lastID, okID := s.accessor.Read(storage.LastOpenedKey)
	lastData, okData := s.accessor.Read(storage.LastOpenedDataKey)
	if !okID || !okData {
		return
	}

	d, err := s.adapter.Decode(lastData)
	if err != nil {
		logger.Warn("failed to restore last diagram: %v", err)
		return
	}
	s.model = d

	if rec, ok := s.diagrams.Find(lastID); ok {
		s.current = &rec
		s.name = rec.Name
	}
	logger.Debug("restored last opened diagram %s", lastID)
}

func (s *Shell) readCollectionLocked() *collection.Collection {
	raw, ok := s.accessor.Read(storage.DiagramsKey)
	if !ok {
		return collection.New()
	}
	c, err := collection.Decode(raw)
	if err != nil {
		logger.Error("failed to read saved diagrams: %v", err)
		return collection.New()
	}
	return c
}

// persistCollectionLocked writes the collection, notifying on failure.
func (s *Shell) persistCollectionLocked() bool {
	raw, err := s.diagrams.Encode()
	if err != nil {
		logger.Error("%v", err)
		return false
	}
	if !s.accessor.Write(storage.DiagramsKey, raw) {
		s.notifyLocked(Notice{Kind: NoticeWarning, Message: msgQuotaExceeded, OpenStorage: true})
		return false
	}
	return true
}

// writeLastOpenedLocked records id and its stored data for fast restore.
func (s *Shell) writeLastOpenedLocked(id string, data diagram.Data) bool {
	encoded, err := s.adapter.Encode(data)
	if err != nil {
		logger.Error("%v", err)
		return false
	}
	okID := s.accessor.Write(storage.LastOpenedKey, id)
	okData := s.accessor.Write(storage.LastOpenedDataKey, encoded)
	return okID && okData
}

func (s *Shell) notifyLocked(n Notice) {
	if n.At.IsZero() {
		n.At = s.now()
	}
	s.notifier.Notify(n)
}

// liveModel returns a copy of the model sharing only the icon catalog.
func (s *Shell) liveModel() diagram.Data {
	stripped := persist.Strip(s.model)
	return persist.Reattach(stripped, s.model.Icons)
}

// savableLocked is the stored form of the current model under title.
func (s *Shell) savableLocked(title string) diagram.Data {
	d := diagram.ExtractSavable(s.model)
	d.Title = diagram.String(title)
	d.FitToScreen = diagram.Bool(true)
	return persist.Strip(d)
}

func (s *Shell) stateLocked() State {
	switch {
	case s.dirty:
		return StateNamedUnsaved
	case s.current != nil:
		return StateNamedSaved
	case s.name != "":
		return StateNamedUnsaved
	default:
		return StateEmpty
	}
}

// Snapshot returns a copy of the session.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Model:        s.liveModel(),
		RemountToken: s.remount,
		Name:         s.name,
		State:        s.stateLocked(),
		Unsaved:      s.dirty,
	}
	if s.current != nil {
		rec := *s.current
		snap.Current = &rec
	}
	if !s.lastAutoSave.IsZero() {
		t := s.lastAutoSave
		snap.LastAutoSave = &t
	}
	return snap
}

// Diagrams returns the saved diagrams in order.
func (s *Shell) Diagrams() []collection.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagrams.List()
}

// Find resolves a saved diagram by id or name.
func (s *Shell) Find(nameOrID string) (collection.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagrams.Resolve(nameOrID)
}

// Rename sets the name the next save will use.
func (s *Shell) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.name = name
	s.dirty = true
	s.scheduleAutoSaveLocked()
}

// ModelUpdated merges a (possibly partial) model from the diagramming
// component into the session. The live icon catalog is always kept.
func (s *Shell) ModelUpdated(update diagram.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update.Icons = nil
	s.model = persist.Reattach(diagram.Merge(s.model, update), s.adapter.Catalog())
	s.dirty = true
	s.scheduleAutoSaveLocked()
}

// Save stores the current model under name, creating a record on first
// save and updating it in place afterwards.
func (s *Shell) Save(name string) (collection.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(name)
}

// QuickSave re-saves the current record under the current name.
func (s *Shell) QuickSave() (collection.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || !s.dirty {
		return collection.Record{}, ErrNothingToSave
	}
	name := s.name
	if strings.TrimSpace(name) == "" {
		name = s.current.Name
	}
	return s.saveLocked(name)
}

func (s *Shell) saveLocked(name string) (collection.Record, error) {
	if strings.TrimSpace(name) == "" {
		s.notifyLocked(Notice{Kind: NoticeWarning, Message: msgBlankName})
		return collection.Record{}, ErrBlankName
	}

	now := s.now()
	data := s.savableLocked(name)

	var rec collection.Record
	if s.current != nil {
		rec = *s.current
		rec.Name = name
		rec.Data = data
		rec.UpdatedAt = now
	} else {
		var err error
		if rec, err = collection.NewRecord(name, data, now); err != nil {
			return collection.Record{}, err
		}
	}

	s.cancelAutoSaveLocked()
	s.diagrams.Upsert(rec)
	s.current = &rec
	s.name = name

	// The session only counts as saved once the collection is on disk.
	if !s.persistCollectionLocked() {
		s.dirty = true
		return rec, fmt.Errorf("failed to save %q: %w", name, ErrNotPersisted)
	}
	s.dirty = false
	s.lastAutoSave = now

	if !s.writeLastOpenedLocked(rec.ID, data) {
		s.notifyLocked(Notice{Kind: NoticeWarning, Message: msgStorageFull, OpenStorage: true})
	}

	logger.Info("saved diagram %q (%s)", rec.Name, rec.ID)
	return rec, nil
}

// Load makes the saved diagram identified by nameOrID current. With unsaved
// changes it returns a pending action instead.
func (s *Shell) Load(nameOrID string) (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.diagrams.Resolve(nameOrID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
	}
	if s.dirty {
		return s.requestLocked(ActionLoad, rec.ID, promptLoadUnsaved), nil
	}
	s.loadLocked(rec)
	return nil, nil
}

func (s *Shell) loadLocked(rec collection.Record) {
	s.cancelAutoSaveLocked()
	s.model = s.adapter.Reattach(rec.Data)
	s.current = &rec
	s.name = rec.Name
	s.dirty = false
	s.remount++

	if !s.writeLastOpenedLocked(rec.ID, rec.Data) {
		logger.Warn("failed to record last opened diagram %s", rec.ID)
	}
	logger.Info("loaded diagram %q (%s)", rec.Name, rec.ID)
}

// Delete asks to remove a saved diagram. It always needs confirmation.
func (s *Shell) Delete(nameOrID string) (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.diagrams.Resolve(nameOrID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
	}
	return s.requestLocked(ActionDelete, rec.ID, promptDelete), nil
}

func (s *Shell) deleteLocked(id string) error {
	if !s.diagrams.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if s.current != nil && s.current.ID == id {
		s.cancelAutoSaveLocked()
		s.current = nil
		s.name = ""
		s.dirty = false
	}
	if last, ok := s.accessor.Read(storage.LastOpenedKey); ok && last == id {
		s.accessor.Remove(storage.LastOpenedKey)
		s.accessor.Remove(storage.LastOpenedDataKey)
	}

	logger.Info("deleted diagram %s", id)
	if !s.persistCollectionLocked() {
		return fmt.Errorf("failed to delete %s: %w", id, ErrNotPersisted)
	}
	return nil
}

// NewDiagram resets the session to an empty diagram. With unsaved changes it
// returns a pending action instead.
func (s *Shell) NewDiagram() *PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		return s.requestLocked(ActionNew, "", promptNewUnsaved)
	}
	s.newLocked()
	return nil
}

func (s *Shell) newLocked() {
	s.cancelAutoSaveLocked()
	s.model = s.adapter.Reattach(diagram.New())
	s.current = nil
	s.name = ""
	s.dirty = false
	s.remount++

	s.accessor.Remove(storage.LastOpenedKey)
	s.accessor.Remove(storage.LastOpenedDataKey)
}

// BeforeUnload reports whether leaving should be confirmed, and the prompt.
func (s *Shell) BeforeUnload() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return "", false
	}
	return promptUnload, true
}

// Reload discards the in-memory session and restores it from storage.
func (s *Shell) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked()
}

// Close stops auto-save. Timer firings after Close are ignored.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAutoSaveLocked()
	s.closed = true
}
