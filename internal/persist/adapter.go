// Package persist converts diagrams between their live form (full icon
// catalog attached) and their stored form (icons removed).
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/icons"
)

// Strip returns a copy of d with the icons field removed entirely.
func Strip(d diagram.Data) diagram.Data {
	out := diagram.Merge(d, diagram.Data{})
	out.Icons = nil
	return out
}

// Reattach returns a copy of d whose icons are the supplied catalog,
// regardless of what d carried before.
func Reattach(d diagram.Data, catalog []diagram.Icon) diagram.Data {
	out := diagram.Merge(d, diagram.Data{})
	if catalog == nil {
		catalog = []diagram.Icon{}
	}
	out.Icons = catalog
	return out
}

// Adapter binds Strip and Reattach to one catalog and to the stored JSON
// encoding.
type Adapter struct {
	catalog *icons.Catalog
}

// NewAdapter creates an adapter that reattaches icons from catalog.
func NewAdapter(catalog *icons.Catalog) *Adapter {
	return &Adapter{catalog: catalog}
}

// Catalog returns the icons attached on load.
func (a *Adapter) Catalog() []diagram.Icon {
	return a.catalog.Icons()
}

// Reattach attaches the adapter's catalog to d.
func (a *Adapter) Reattach(d diagram.Data) diagram.Data {
	return Reattach(d, a.catalog.Icons())
}

// Encode serializes the stored form of d.
func (a *Adapter) Encode(d diagram.Data) (string, error) {
	data, err := json.Marshal(Strip(d))
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagram: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored diagram and attaches the catalog.
func (a *Adapter) Decode(raw string) (diagram.Data, error) {
	d, err := diagram.Parse([]byte(raw))
	if err != nil {
		return diagram.Data{}, err
	}
	return a.Reattach(d), nil
}
