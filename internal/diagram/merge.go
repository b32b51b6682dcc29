package diagram

import (
	"encoding/json"
	"slices"
)

// Merge overlays update on base field by field. A field present in update
// (including an explicitly empty array) wins; an absent field keeps base's
// value. Arrays are replaced wholesale, never concatenated.
func Merge(base, update Data) Data {
	out := base.clone()

	if update.Title != nil {
		out.Title = String(*update.Title)
	}
	if update.Version != nil {
		out.Version = String(*update.Version)
	}
	if update.Description != nil {
		out.Description = String(*update.Description)
	}
	if update.Icons != nil {
		out.Icons = slices.Clone(update.Icons)
	}
	if update.Colors != nil {
		out.Colors = slices.Clone(update.Colors)
	}
	if update.Items != nil {
		out.Items = slices.Clone(update.Items)
	}
	if update.Views != nil {
		out.Views = slices.Clone(update.Views)
	}
	if update.FitToScreen != nil {
		out.FitToScreen = Bool(*update.FitToScreen)
	}

	return out
}

// ExtractSavable projects a diagram down to its durable fields. Absent arrays
// become empty arrays and fitToScreen is true unless explicitly false.
func ExtractSavable(full Data) Data {
	out := full.clone()

	if out.Icons == nil {
		out.Icons = []Icon{}
	}
	if out.Colors == nil {
		out.Colors = []Color{}
	}
	if out.Items == nil {
		out.Items = []json.RawMessage{}
	}
	if out.Views == nil {
		out.Views = []json.RawMessage{}
	}
	out.FitToScreen = Bool(full.FitsToScreen())

	return out
}

// clone copies the slice headers and scalar pointers so the result shares no
// mutable state with d. Nil-ness is preserved.
func (d Data) clone() Data {
	out := Data{
		Icons:  slices.Clone(d.Icons),
		Colors: slices.Clone(d.Colors),
		Items:  slices.Clone(d.Items),
		Views:  slices.Clone(d.Views),
	}
	if d.Title != nil {
		out.Title = String(*d.Title)
	}
	if d.Version != nil {
		out.Version = String(*d.Version)
	}
	if d.Description != nil {
		out.Description = String(*d.Description)
	}
	if d.FitToScreen != nil {
		out.FitToScreen = Bool(*d.FitToScreen)
	}
	return out
}
