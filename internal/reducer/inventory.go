package reducer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// EmptyInventory is the display text for an inventory with no entries
const EmptyInventory = "Empty"

var quantityRegex = regexp.MustCompile(`^(.+?)\s*\((\d+)\)$`)

// ParseQuantity splits "Gold Pouch (10)" into ("Gold Pouch", 10, true)
func ParseQuantity(item string) (string, int, bool) {
	matches := quantityRegex.FindStringSubmatch(strings.TrimSpace(item))
	if matches == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(matches[1]), n, true
}

// FormatQuantity renders a counted item entry
func FormatQuantity(name string, quantity int) string {
	return fmt.Sprintf("%s (%d)", name, quantity)
}

// EditQuantities applies "old (n)" -> "new (m)" edits. An edit only applies
// when both sides carry a quantity for the same item name; the first entry
// with that name is rewritten, or removed when the new quantity is <= 0.
// Edits are visited in sorted key order.
func EditQuantities(inventory entities.ItemList, edits map[string]string) entities.ItemList {
	out := inventory.Clone()

	keys := make([]string, 0, len(edits))
	for k := range edits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, oldItem := range keys {
		oldName, _, ok := ParseQuantity(oldItem)
		if !ok {
			continue
		}
		newName, newQty, ok := ParseQuantity(edits[oldItem])
		if !ok || newName != oldName {
			continue
		}

		for i, item := range out {
			name, _, ok := ParseQuantity(item)
			if !ok || name != oldName {
				continue
			}
			if newQty > 0 {
				out[i] = FormatQuantity(newName, newQty)
			} else {
				out = append(out[:i], out[i+1:]...)
			}
			break
		}
	}

	return out
}

// RemoveItems deletes at most one entry per listed name, first occurrence
// first. Names not present are ignored.
func RemoveItems(inventory entities.ItemList, names []string) (entities.ItemList, []string) {
	out := inventory.Clone()
	var removed []string

	for _, name := range names {
		for i, item := range out {
			if item == name {
				out = append(out[:i], out[i+1:]...)
				removed = append(removed, name)
				break
			}
		}
	}

	return out, removed
}

// HasItems reports, per requested item, whether the inventory holds it. A
// counted request ("Arrows (10)") is satisfied by an entry of the same name
// with at least that quantity; anything else needs an exact entry.
func HasItems(inventory entities.ItemList, items []string) map[string]bool {
	result := make(map[string]bool, len(items))

	for _, item := range items {
		name, qty, counted := ParseQuantity(item)
		found := false
		for _, entry := range inventory {
			if !counted {
				if entry == item {
					found = true
					break
				}
				continue
			}
			entryName, entryQty, ok := ParseQuantity(entry)
			if ok && entryName == name && entryQty >= qty {
				found = true
				break
			}
		}
		result[item] = found
	}

	return result
}

// FormatInventory aggregates entries by name, one line each in first-seen order
func FormatInventory(inventory entities.ItemList) string {
	if len(inventory) == 0 {
		return EmptyInventory
	}

	counts := map[string]int{}
	var order []string
	for _, item := range inventory {
		name, qty, ok := ParseQuantity(item)
		if !ok {
			name, qty = item, 1
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name] += qty
	}

	lines := make([]string, len(order))
	for i, name := range order {
		if counts[name] > 1 {
			lines[i] = FormatQuantity(name, counts[name])
		} else {
			lines[i] = name
		}
	}
	return strings.Join(lines, "\n")
}
