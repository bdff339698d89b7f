package entry

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every document. Version 1 predates video
// attachments, item metadata and favorites.
const SchemaVersion = 2

type document struct {
	SchemaVersion int `json:"schemaVersion"`
	Day
}

// Marshal encodes d as a versioned entry document.
func Marshal(d *Day) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("entry: nil day")
	}
	return json.MarshalIndent(document{SchemaVersion: SchemaVersion, Day: *d}, "", "  ")
}

// Unmarshal decodes an entry document of any schema version. Fields a
// version does not know about default to empty values; unknown fields from
// newer versions are ignored.
func Unmarshal(data []byte) (*Day, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.SchemaVersion < 0 {
		return nil, fmt.Errorf("entry: invalid schema version %d", doc.SchemaVersion)
	}
	d := doc.Day
	for _, c := range Categories() {
		it := d.Item(c)
		if it.Category != "" && it.Category != c {
			return nil, fmt.Errorf("entry: %s slot holds a %q item", c, it.Category)
		}
	}
	// Keep the persisted UpdatedAt; Normalize would recompute it.
	updated := d.UpdatedAt
	d.Normalize()
	if updated.After(d.UpdatedAt) {
		d.UpdatedAt = updated
	}
	if d.DayKey.IsZero() {
		return nil, fmt.Errorf("entry: document has no day key")
	}
	return &d, nil
}
