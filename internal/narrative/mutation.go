package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// Mutation keys recognized inside a characterUpdates object
const (
	KeyHitPoints        = "hit_points"
	KeyExperiencePoints = "experience_points"
	KeyArmorClass       = "armor_class"
	KeyInventory        = "inventory"
	KeyInventoryAdd     = "inventory_add"
	KeyInventoryRemove  = "inventory_remove"
	KeyInventoryEdit    = "inventory_edit"
	KeyConditions       = "conditions"

	wrapperKey = "characterUpdates"
)

var mutationKeys = map[string]bool{
	KeyHitPoints:        true,
	KeyExperiencePoints: true,
	KeyArmorClass:       true,
	KeyInventory:        true,
	KeyInventoryAdd:     true,
	KeyInventoryRemove:  true,
	KeyInventoryEdit:    true,
	KeyConditions:       true,
}

// Mutation describes character-state changes requested by the narrator.
// HitPoints is a signed delta, ExperiencePoints is additive, ArmorClass is
// absolute, Inventory and Conditions replace the current lists.
type Mutation struct {
	HitPoints        *int              `json:"hit_points,omitempty"`
	ExperiencePoints *int              `json:"experience_points,omitempty"`
	ArmorClass       *int              `json:"armor_class,omitempty"`
	Inventory        entities.ItemList `json:"inventory,omitempty"`
	InventoryAdd     entities.ItemList `json:"inventory_add,omitempty"`
	InventoryRemove  entities.ItemList `json:"inventory_remove,omitempty"`
	InventoryEdit    map[string]string `json:"inventory_edit,omitempty"`
	Conditions       []string          `json:"conditions,omitempty"`

	// HasInventory and HasConditions record presence, since an empty list is a valid replacement
	HasInventory  bool `json:"-"`
	HasConditions bool `json:"-"`
}

// IsEmpty reports whether the mutation changes nothing
func (m *Mutation) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.HitPoints == nil &&
		m.ExperiencePoints == nil &&
		m.ArmorClass == nil &&
		!m.HasInventory &&
		len(m.InventoryAdd) == 0 &&
		len(m.InventoryRemove) == 0 &&
		len(m.InventoryEdit) == 0 &&
		!m.HasConditions
}

// MarshalJSON keeps present-but-empty replacement lists in the output
func (m Mutation) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if m.HitPoints != nil {
		out[KeyHitPoints] = *m.HitPoints
	}
	if m.ExperiencePoints != nil {
		out[KeyExperiencePoints] = *m.ExperiencePoints
	}
	if m.ArmorClass != nil {
		out[KeyArmorClass] = *m.ArmorClass
	}
	if m.HasInventory {
		out[KeyInventory] = nonNil(m.Inventory)
	}
	if len(m.InventoryAdd) > 0 {
		out[KeyInventoryAdd] = m.InventoryAdd
	}
	if len(m.InventoryRemove) > 0 {
		out[KeyInventoryRemove] = m.InventoryRemove
	}
	if len(m.InventoryEdit) > 0 {
		out[KeyInventoryEdit] = m.InventoryEdit
	}
	if m.HasConditions {
		out[KeyConditions] = nonNil(m.Conditions)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a mutation object. Unknown keys are ignored and a
// null value means the field is unchanged; a known key with an unusable
// value fails the whole object.
func (m *Mutation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if nested, ok := raw[wrapperKey]; ok {
		return m.UnmarshalJSON(nested)
	}

	var out Mutation
	for key, value := range raw {
		if isNull(value) {
			continue
		}

		var err error
		switch key {
		case KeyHitPoints:
			out.HitPoints, err = parseInt(value)
		case KeyExperiencePoints:
			out.ExperiencePoints, err = parseInt(value)
		case KeyArmorClass:
			out.ArmorClass, err = parseInt(value)
		case KeyInventory:
			out.HasInventory = true
			err = json.Unmarshal(value, &out.Inventory)
		case KeyInventoryAdd:
			err = json.Unmarshal(value, &out.InventoryAdd)
		case KeyInventoryRemove:
			err = json.Unmarshal(value, &out.InventoryRemove)
		case KeyInventoryEdit:
			err = json.Unmarshal(value, &out.InventoryEdit)
		case KeyConditions:
			out.HasConditions = true
			var list entities.ItemList
			err = json.Unmarshal(value, &list)
			out.Conditions = []string(list)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	*m = out
	return nil
}

// ParseMutation decodes a mutation object, returning nil for anything unusable
func ParseMutation(data []byte) *Mutation {
	var m Mutation
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

// hasMutationKey reports whether a decoded object looks like a mutation
func hasMutationKey(raw map[string]json.RawMessage) bool {
	for key := range raw {
		if mutationKeys[key] {
			return true
		}
	}
	return false
}

// parseInt accepts JSON numbers and numeric strings such as "+5"
func parseInt(raw json.RawMessage) (*int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("not an integer: %v", f)
		}
		n := int(f)
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("not a number: %s", string(raw))
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &n, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
