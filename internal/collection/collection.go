// Package collection holds the user's saved diagrams as an ordered list of
// records persisted under a single storage key.
package collection

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/persist"
)

// Record is one saved diagram.
type Record struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Data      diagram.Data `json:"data"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewRecord creates a record with a time-ordered id.
func NewRecord(name string, data diagram.Data, now time.Time) (Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate diagram id: %w", err)
	}
	return Record{
		ID:        id.String(),
		Name:      name,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Collection is the ordered list of saved diagrams. Records keep their
// insertion order; updates replace a record in place.
type Collection struct {
	records []Record
}

// New creates a collection from records.
func New(records ...Record) *Collection {
	return &Collection{records: slices.Clone(records)}
}

// Decode parses the stored collection. Record data is kept as stored (icons
// absent); callers reattach icons when a record is loaded.
func Decode(raw string) (*Collection, error) {
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: diagrams collection: %v", diagram.ErrMalformed, err)
	}
	return &Collection{records: records}, nil
}

// Encode serializes the collection with every record's icons stripped.
func (c *Collection) Encode() (string, error) {
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		r.Data = persist.Strip(r.Data)
		out[i] = r
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagrams: %w", err)
	}
	return string(data), nil
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// List returns a copy of the records in order.
func (c *Collection) List() []Record {
	return slices.Clone(c.records)
}

// Find returns the record with id.
func (c *Collection) Find(id string) (Record, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Record{}, false
	}
	return c.records[i], true
}

// Resolve looks a record up by id first, then by the first matching name.
func (c *Collection) Resolve(nameOrID string) (Record, bool) {
	if r, ok := c.Find(nameOrID); ok {
		return r, true
	}
	for _, r := range c.records {
		if r.Name == nameOrID {
			return r, true
		}
	}
	return Record{}, false
}

// Upsert replaces the record with the same id in place, or appends it.
func (c *Collection) Upsert(r Record) {
	if i := c.indexOf(r.ID); i >= 0 {
		c.records[i] = r
		return
	}
	c.records = append(c.records, r)
}

// Remove deletes the record with id, reporting whether it existed.
func (c *Collection) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.records = slices.Delete(c.records, i, i+1)
	return true
}

func (c *Collection) indexOf(id string) int {
	return slices.IndexFunc(c.records, func(r Record) bool { return r.ID == id })
}
