// Package reducer computes the next Character state from a narrator mutation.
//
// Reduce is pure: it never touches a store and never mutates its input. It is
// also not idempotent. Additive fields (experience, hit point deltas,
// inventory additions) apply again on every call, so callers that may retry
// must de-duplicate before reducing.
package reducer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
)

// SummaryPrefix starts every change summary
const SummaryPrefix = "Character updated: "

// Change fields
const (
	FieldInventory        = "inventory"
	FieldHitPoints        = "hit_points"
	FieldExperiencePoints = "experience_points"
	FieldArmorClass       = "armor_class"
	FieldConditions       = "conditions"
)

// Change records one field that differs between the previous and next state
type Change struct {
	Field  string      `json:"field"`
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// Result is the outcome of a reduction
type Result struct {
	Next    *entities.Character `json:"character"`
	Changes []Change            `json:"changes,omitempty"`
	// Summary is the audit line for the session log, empty when nothing changed
	Summary string `json:"summary,omitempty"`
	// Applied is the normalized mutation as it was applied
	Applied map[string]interface{} `json:"applied,omitempty"`
}

// Changed reports whether the reduction altered the character
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// Reduce applies m to a deep copy of prev.
//
// Order: wholesale inventory, quantity edits, removals (one entry per name,
// first occurrence), additions, then hit points (signed delta), experience
// (additive, negatives ignored), armor class (absolute) and conditions
// (wholesale). Hit points are clamped at 0 but never at max_hit_points.
func Reduce(prev *entities.Character, m *narrative.Mutation) *Result {
	next := prev.Clone()
	if next == nil {
		next = &entities.Character{}
	}
	result := &Result{Next: next}
	if m.IsEmpty() {
		return result
	}

	var parts []string
	applied := map[string]interface{}{}

	// inventory
	beforeInventory := next.Inventory.Clone()
	if m.HasInventory {
		next.Inventory = m.Inventory.Clone()
		applied[narrative.KeyInventory] = []string(next.Inventory)
		if !equalLists(beforeInventory, next.Inventory) {
			if len(next.Inventory) > 0 {
				parts = append(parts, "Inventory: "+strings.Join(next.Inventory, ", "))
			} else {
				parts = append(parts, "Inventory: none")
			}
		}
	}
	if len(m.InventoryEdit) > 0 {
		next.Inventory = EditQuantities(next.Inventory, m.InventoryEdit)
		applied[narrative.KeyInventoryEdit] = m.InventoryEdit
		parts = append(parts, "Edited: "+formatEdits(m.InventoryEdit))
	}
	var removed []string
	if len(m.InventoryRemove) > 0 {
		next.Inventory, removed = RemoveItems(next.Inventory, m.InventoryRemove)
		applied[narrative.KeyInventoryRemove] = []string(m.InventoryRemove)
	}
	if len(m.InventoryAdd) > 0 {
		next.Inventory = append(next.Inventory, m.InventoryAdd...)
		applied[narrative.KeyInventoryAdd] = []string(m.InventoryAdd)
		parts = append(parts, "Added: "+strings.Join(m.InventoryAdd, ", "))
	}
	if len(removed) > 0 {
		parts = append(parts, "Removed: "+strings.Join(removed, ", "))
	}
	if !equalLists(beforeInventory, next.Inventory) {
		result.Changes = append(result.Changes, Change{
			Field:  FieldInventory,
			Before: nonNilItems(beforeInventory),
			After:  nonNilItems(next.Inventory),
		})
	}

	// experience
	if m.ExperiencePoints != nil && *m.ExperiencePoints > 0 {
		before := next.ExperiencePoints
		next.ExperiencePoints += *m.ExperiencePoints
		applied[narrative.KeyExperiencePoints] = *m.ExperiencePoints
		parts = append(parts, fmt.Sprintf("XP: %+d", *m.ExperiencePoints))
		result.Changes = append(result.Changes, Change{Field: FieldExperiencePoints, Before: before, After: next.ExperiencePoints})
	}

	// hit points
	if m.HitPoints != nil && *m.HitPoints != 0 {
		before := next.HitPoints
		next.HitPoints += *m.HitPoints
		if next.HitPoints < 0 {
			next.HitPoints = 0
		}
		applied[narrative.KeyHitPoints] = *m.HitPoints
		part := fmt.Sprintf("HP: %+d", *m.HitPoints)
		if next.MaxHitPoints > 0 && next.HitPoints > next.MaxHitPoints {
			part += " (above max)"
		}
		parts = append(parts, part)
		if next.HitPoints != before {
			result.Changes = append(result.Changes, Change{Field: FieldHitPoints, Before: before, After: next.HitPoints})
		}
	}

	// armor class
	if m.ArmorClass != nil {
		before := next.ArmorClass
		next.ArmorClass = *m.ArmorClass
		applied[narrative.KeyArmorClass] = *m.ArmorClass
		if before != next.ArmorClass {
			parts = append(parts, fmt.Sprintf("AC: %d", next.ArmorClass))
			result.Changes = append(result.Changes, Change{Field: FieldArmorClass, Before: before, After: next.ArmorClass})
		}
	}

	// conditions
	if m.HasConditions {
		before := next.Conditions
		next.Conditions = append([]string{}, m.Conditions...)
		applied[narrative.KeyConditions] = next.Conditions
		if len(next.Conditions) > 0 {
			parts = append(parts, "Conditions: "+strings.Join(next.Conditions, ", "))
		} else {
			parts = append(parts, "Conditions: none")
		}
		if !equalLists(before, next.Conditions) {
			result.Changes = append(result.Changes, Change{
				Field:  FieldConditions,
				Before: nonNilItems(before),
				After:  next.Conditions,
			})
		}
	}

	result.Applied = applied
	if len(parts) == 0 {
		for _, c := range result.Changes {
			parts = append(parts, c.Field)
		}
	}
	if len(parts) > 0 {
		result.Summary = SummaryPrefix + strings.Join(parts, ", ")
	}

	return result
}

func formatEdits(edits map[string]string) string {
	keys := make([]string, 0, len(edits))
	for k := range edits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + " -> " + edits[k]
	}
	return strings.Join(out, ", ")
}

func equalLists[T ~[]string](a, b T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nonNilItems[T ~[]string](list T) []string {
	if list == nil {
		return []string{}
	}
	return append([]string{}, list...)
}
