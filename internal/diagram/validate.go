package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when input cannot be treated as diagram data.
var ErrMalformed = errors.New("malformed diagram data")

// Validate reports whether candidate plausibly is diagram data: a JSON-style
// object whose icons, colors, items and views are all arrays.
//
// It is the strict check for complete documents. Imports go through Parse
// instead, which accepts files missing colors or icons so defaults can be
// filled in, and still rejects non-objects and wrongly shaped fields.
func Validate(candidate any) bool {
	obj, ok := candidate.(map[string]any)
	if !ok || obj == nil {
		return false
	}
	for _, field := range []string{"icons", "colors", "items", "views"} {
		if _, ok := obj[field].([]any); !ok {
			return false
		}
	}
	return true
}

// ValidateJSON is Validate applied to raw JSON.
func ValidateJSON(raw []byte) bool {
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return false
	}
	return Validate(candidate)
}

// Parse decodes raw JSON into Data and is the guard applied to imported and
// stored diagrams. Any field may be missing, but the document must be an
// object and present fields must have the right shape.
func Parse(raw []byte) (Data, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Data{}, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	var d Data
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}
