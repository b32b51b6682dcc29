package shell

import (
	"strings"

	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/storage"
)

// scheduleAutoSaveLocked restarts the debounce timer when there is a backing
// record with unsaved changes. Only the most recent schedule can fire.
func (s *Shell) scheduleAutoSaveLocked() {
	if s.closed || s.current == nil || !s.dirty {
		return
	}
	s.cancelAutoSaveLocked()
	gen := s.gen
	s.timer = s.scheduler.AfterFunc(s.delay, func() { s.autoSave(gen) })
}

func (s *Shell) cancelAutoSaveLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Shell) autoSave(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer change, a save or Close has superseded this firing.
	if gen != s.gen || s.closed {
		return
	}
	s.timer = nil
	if s.current == nil || !s.dirty {
		return
	}

	title := s.name
	if strings.TrimSpace(title) == "" {
		title = s.current.Name
	}

	now := s.now()
	rec := *s.current
	rec.Data = s.savableLocked(title)
	rec.UpdatedAt = now

	s.diagrams.Upsert(rec)
	s.current = &rec

	persisted := s.persistCollectionLocked()
	encoded, err := s.adapter.Encode(rec.Data)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	if !persisted || !s.accessor.Write(storage.LastOpenedDataKey, encoded) {
		s.notifyLocked(Notice{Kind: NoticeWarning, Message: msgAutoSaveFull, OpenStorage: true})
		return
	}

	s.lastAutoSave = now
	s.dirty = false
	logger.Debug("auto-saved diagram %q", rec.Name)
}
