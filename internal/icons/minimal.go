package icons

import (
	"strings"

	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/logger"
)

// minimalFallback is how many leading icons are kept when no icon matches an
// essential marker.
const minimalFallback = 10

// essentialMarkers are the identifier fragments of icons the diagramming
// component relies on internally.
var essentialMarkers = []string{
	"arrow",
	"connector",
	"line",
	"path",
	"_isoflow_",
	"isoflow-arrow",
	"isoflow-connector",
}

// MinimalSubset keeps the icons whose id contains an essential marker
// (case-insensitive). When nothing matches it falls back to the first ten
// icons. This is a size heuristic, not a dependency analysis.
func MinimalSubset(all []diagram.Icon) []diagram.Icon {
	minimal := make([]diagram.Icon, 0)
	for _, icon := range all {
		id := strings.ToLower(icon.ID)
		for _, marker := range essentialMarkers {
			if strings.Contains(id, marker) {
				minimal = append(minimal, icon)
				break
			}
		}
	}

	logger.Debug("Reduced icons from %d to %d essential icons", len(all), len(minimal))

	if len(minimal) == 0 && len(all) > 0 {
		n := min(len(all), minimalFallback)
		fallback := make([]diagram.Icon, n)
		copy(fallback, all[:n])
		return fallback
	}

	return minimal
}
