// Package icons assembles the icon catalog from the bundled icon packs.
//
// The catalog is built once per process and is read-only afterwards, so it is
// shared by reference wherever a diagram needs icons attached.
package icons

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/n1rna/fossflow-cli/internal/diagram"
)

//go:embed packs/*.json
var packFS embed.FS

// bundledOrder is the order packs are flattened into the catalog: the base
// pack first, then vendor and platform packs.
var bundledOrder = []string{"isoflow", "aws", "azure", "gcp", "kubernetes"}

// Pack is one bundled icon collection.
type Pack struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Icons []diagram.Icon `json:"icons"`
}

// Catalog is an immutable, ordered set of icons.
type Catalog struct {
	icons []diagram.Icon
}

// Assemble flattens packs into one catalog, tagging every icon with the pack
// it came from when the icon does not say so itself.
func Assemble(packs ...Pack) *Catalog {
	total := 0
	for _, p := range packs {
		total += len(p.Icons)
	}

	all := make([]diagram.Icon, 0, total)
	for _, p := range packs {
		for _, icon := range p.Icons {
			if icon.Collection == "" {
				icon.Collection = p.ID
			}
			all = append(all, icon)
		}
	}

	return &Catalog{icons: all}
}

// Icons returns the catalog's icons. The slice is shared and must not be
// modified.
func (c *Catalog) Icons() []diagram.Icon {
	if c == nil {
		return []diagram.Icon{}
	}
	return c.icons
}

// Len returns the number of icons in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.icons)
}

// BundledPacks decodes the packs embedded in the binary, in catalog order.
func BundledPacks() ([]Pack, error) {
	packs := make([]Pack, 0, len(bundledOrder))
	for _, id := range bundledOrder {
		data, err := packFS.ReadFile("packs/" + id + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read icon pack %s: %w", id, err)
		}

		var p Pack
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse icon pack %s: %w", id, err)
		}
		packs = append(packs, p)
	}
	return packs, nil
}

var (
	defaultCatalog *Catalog
	defaultErr     error
	defaultOnce    sync.Once
)

// Default returns the process-wide catalog assembled from the bundled packs.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		packs, err := BundledPacks()
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = Assemble(packs...)
	})
	return defaultCatalog, defaultErr
}
