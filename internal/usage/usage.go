// Package usage reports how much of the storage quota diagrams occupy and
// provides the bulk export and clear actions of the storage manager.
package usage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/storage"
)

// Level classifies how full storage is.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Report is a point-in-time usage breakdown. Sizes are value bytes.
type Report struct {
	Used     int64 `json:"used"`
	Diagrams int64 `json:"diagrams"`
	Other    int64 `json:"other"`
	Capacity int64 `json:"capacity"`
}

// Percent returns Used as a percentage of Capacity. It may exceed 100.
func (r Report) Percent() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return float64(r.Used) / float64(r.Capacity) * 100
}

// Level returns critical above 80%, warning above 60%, ok otherwise.
func (r Report) Level() Level {
	switch p := r.Percent(); {
	case p > 80:
		return LevelCritical
	case p > 60:
		return LevelWarning
	default:
		return LevelOK
	}
}

// String renders the report in one line, e.g. "1.2 KiB of 5.0 MiB (0.0%)".
func (r Report) String() string {
	return fmt.Sprintf("%s of %s (%.1f%%)", FormatBytes(r.Used), FormatBytes(r.Capacity), r.Percent())
}

// FormatBytes formats n with binary units.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Panel computes usage over a store and runs the export-all and clear-all
// actions.
type Panel struct {
	accessor *storage.Accessor
	capacity int64
}

// NewPanel creates a panel reporting against capacity bytes.
func NewPanel(accessor *storage.Accessor, capacity int64) *Panel {
	return &Panel{accessor: accessor, capacity: capacity}
}

// Report sums the value bytes of every key, split by the fossflow- prefix.
func (p *Panel) Report() (Report, error) {
	r := Report{Capacity: p.capacity}

	keys, err := p.accessor.Store().Keys()
	if err != nil {
		return r, fmt.Errorf("failed to list storage keys: %w", err)
	}

	for _, key := range keys {
		value, ok := p.accessor.Read(key)
		if !ok {
			continue
		}
		size := int64(len(value))
		r.Used += size
		if strings.HasPrefix(key, storage.KeyPrefix) {
			r.Diagrams += size
		} else {
			r.Other += size
		}
	}
	return r, nil
}

// ExportAll returns the raw diagrams collection as a backup file. The bool
// is false when there is no collection to export.
func (p *Panel) ExportAll(now time.Time) (diagram.File, bool) {
	raw, ok := p.accessor.Read(storage.DiagramsKey)
	if !ok {
		return diagram.File{}, false
	}
	return diagram.File{
		Name:        fmt.Sprintf("fossflow-backup-%d.json", now.UnixMilli()),
		ContentType: "application/json",
		Content:     []byte(raw),
	}, true
}

// ClearAll removes every fossflow- key and returns how many were removed.
// Keys outside the prefix are left alone.
func (p *Panel) ClearAll() (int, error) {
	keys, err := p.accessor.Store().Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list storage keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, storage.KeyPrefix) {
			continue
		}
		if p.accessor.Remove(key) {
			removed++
		}
	}
	logger.Info("cleared %d diagram keys", removed)
	return removed, nil
}

// BarWidth returns how many of width cells a usage bar fills, capped at
// width.
func (r Report) BarWidth(width int) int {
	filled := int(math.Round(math.Min(r.Percent(), 100) / 100 * float64(width)))
	return max(0, min(filled, width))
}
