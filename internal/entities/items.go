package entities

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ItemShape tags which form an item collection arrived in
type ItemShape int

// Item collection shapes
const (
	ItemShapeFlat ItemShape = iota
	ItemShapeCategorized
)

// ItemRecord is the object form of an item entry
type ItemRecord struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
}

// String renders the record as a flat inventory entry, "Arrows (20)" when quantity > 1
func (r ItemRecord) String() string {
	if r.Quantity > 1 {
		return fmt.Sprintf("%s (%d)", r.Name, r.Quantity)
	}
	return r.Name
}

// RawItems is an item collection as received from the LLM or a client:
// either a flat list or a category -> list map.
type RawItems struct {
	Shape       ItemShape
	Flat        []string
	Categorized map[string][]string
}

// Normalize flattens the collection. Categories are visited in sorted order.
func (r RawItems) Normalize() ItemList {
	if r.Shape == ItemShapeFlat {
		if r.Flat == nil {
			return nil
		}
		return append(ItemList{}, r.Flat...)
	}

	categories := make([]string, 0, len(r.Categorized))
	for category := range r.Categorized {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	out := ItemList{}
	for _, category := range categories {
		out = append(out, r.Categorized[category]...)
	}
	return out
}

// ParseItems decodes any accepted item collection shape
func ParseItems(data []byte) (RawItems, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return RawItems{Shape: ItemShapeFlat}, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return RawItems{}, err
		}
		categorized := make(map[string][]string, len(raw))
		for category, entries := range raw {
			items, err := parseFlat(entries)
			if err != nil {
				return RawItems{}, fmt.Errorf("category %q: %w", category, err)
			}
			categorized[category] = items
		}
		return RawItems{Shape: ItemShapeCategorized, Categorized: categorized}, nil
	}

	items, err := parseFlat(data)
	if err != nil {
		return RawItems{}, err
	}
	return RawItems{Shape: ItemShapeFlat, Flat: items}, nil
}

// parseFlat decodes a list whose entries are strings or item records
func parseFlat(data []byte) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		// a single scalar entry is tolerated
		var single string
		if json.Unmarshal(data, &single) == nil {
			return []string{single}, nil
		}
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			out = append(out, name)
			continue
		}
		var record ItemRecord
		if err := json.Unmarshal(entry, &record); err != nil {
			return nil, fmt.Errorf("unsupported item entry %s", string(entry))
		}
		if record.Name == "" {
			continue
		}
		out = append(out, record.String())
	}
	return out, nil
}

// ItemList is the canonical flat form of equipment, inventory and spells.
// Insertion order is kept for display; duplicates are separate entries.
type ItemList []string

// UnmarshalJSON normalizes any accepted shape into a flat list
func (l *ItemList) UnmarshalJSON(data []byte) error {
	raw, err := ParseItems(data)
	if err != nil {
		return err
	}
	*l = raw.Normalize()
	return nil
}

// Clone returns a copy of the list
func (l ItemList) Clone() ItemList {
	if l == nil {
		return nil
	}
	return append(ItemList{}, l...)
}

// ContainsAny reports whether any entry contains one of the substrings (case-insensitive)
func (l ItemList) ContainsAny(substrings ...string) bool {
	return l.CountMatching(substrings...) > 0
}

// CountMatching counts entries containing any of the substrings (case-insensitive)
func (l ItemList) CountMatching(substrings ...string) int {
	count := 0
	for _, item := range l {
		lower := strings.ToLower(item)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				count++
				break
			}
		}
	}
	return count
}
