// Package diagram defines the diagram model exchanged with the isometric
// diagramming component and the pure functions that merge, project and
// validate it.
//
// Field presence matters: a nil slice or nil pointer means "absent", while a
// non-nil empty slice means "explicitly empty". JSON follows the same rule, so
// `"items": []` survives a round trip and an omitted key stays omitted. A JSON
// null is decoded as absent.
package diagram

import (
	"encoding/json"
)

// DefaultTitle is used when a diagram has no title of its own.
const DefaultTitle = "Untitled Diagram"

// Icon is a single icon descriptor from a bundled icon pack.
type Icon struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	Collection  string `json:"collection,omitempty"`
	IsIsometric *bool  `json:"isIsometric,omitempty"`
}

// Color is a palette entry; ID is unique within a diagram.
type Color struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Data is the diagram model. Items and views are owned by the diagramming
// component and are never interpreted here.
type Data struct {
	Title       *string           `json:"title,omitempty"`
	Version     *string           `json:"version,omitempty"`
	Description *string           `json:"description,omitempty"`
	Icons       []Icon            `json:"icons"`
	Colors      []Color           `json:"colors"`
	Items       []json.RawMessage `json:"items"`
	Views       []json.RawMessage `json:"views"`
	FitToScreen *bool             `json:"fitToScreen,omitempty"`
}

// wireData mirrors Data with pointer slices so that omitempty drops only
// absent fields and keeps explicit empty arrays.
type wireData struct {
	Title       *string            `json:"title,omitempty"`
	Version     *string            `json:"version,omitempty"`
	Description *string            `json:"description,omitempty"`
	Icons       *[]Icon            `json:"icons,omitempty"`
	Colors      *[]Color           `json:"colors,omitempty"`
	Items       *[]json.RawMessage `json:"items,omitempty"`
	Views       *[]json.RawMessage `json:"views,omitempty"`
	FitToScreen *bool              `json:"fitToScreen,omitempty"`
}

// MarshalJSON writes only the fields that are present.
func (d Data) MarshalJSON() ([]byte, error) {
	w := wireData{
		Title:       d.Title,
		Version:     d.Version,
		Description: d.Description,
		FitToScreen: d.FitToScreen,
	}
	if d.Icons != nil {
		w.Icons = &d.Icons
	}
	if d.Colors != nil {
		w.Colors = &d.Colors
	}
	if d.Items != nil {
		w.Items = &d.Items
	}
	if d.Views != nil {
		w.Views = &d.Views
	}
	return json.Marshal(w)
}

// String returns a pointer to s, for building Data literals.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// TitleOr returns the title, or fallback when the title is absent or empty.
func (d Data) TitleOr(fallback string) string {
	if d.Title == nil || *d.Title == "" {
		return fallback
	}
	return *d.Title
}

// FitsToScreen reports the effective fit-to-screen flag (true unless
// explicitly false).
func (d Data) FitsToScreen() bool {
	return d.FitToScreen == nil || *d.FitToScreen
}

// New returns an empty diagram with the default title and palette. Icons are
// left absent; callers attach the live catalog before rendering.
func New() Data {
	return Data{
		Title:       String(DefaultTitle),
		Colors:      DefaultColors(),
		Items:       []json.RawMessage{},
		Views:       []json.RawMessage{},
		FitToScreen: Bool(true),
	}
}
