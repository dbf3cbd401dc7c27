package engine

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// Equipment-gated actions
const (
	ActionShieldBash        = "shield bash"
	ActionTwoWeaponFighting = "two-weapon fighting"
	ActionDualWield         = "dual wield"
	ActionHeavyArmor        = "heavy armor"
	ActionSpellcasting      = "spellcasting"
	ActionRangedAttack      = "ranged attack"

	// HeavyArmorMinStrength is the STR score needed to wear heavy armor without penalty
	HeavyArmorMinStrength = 13
)

// Base actions every character can take
var BaseActions = []string{"Attack", "Move", "Dodge", "Disengage", "Dash", "Help"}

var (
	meleeWeaponKeywords  = []string{"sword", "dagger", "axe", "mace", "hammer"}
	rangedWeaponKeywords = []string{"bow", "crossbow", "sling"}
	ammunitionKeywords   = []string{"arrow", "bolt", "dart"}
	focusKeywords        = []string{"component", "focus", "material"}
	spellItemKeywords    = []string{"spell", "scroll"}
	shieldKeywords       = []string{"shield"}
)

type equipmentRule struct {
	check        func(items entities.ItemList, scores entities.AbilityScores) bool
	reason       string
	alternatives []string
}

var equipmentRules = map[string]equipmentRule{
	ActionShieldBash: {
		check: func(items entities.ItemList, _ entities.AbilityScores) bool {
			return items.ContainsAny(shieldKeywords...)
		},
		reason:       "You don't have a shield equipped or in your inventory.",
		alternatives: []string{"Use your weapon to attack", "Try to grapple the enemy", "Use a different action"},
	},
	ActionTwoWeaponFighting: twoWeaponRule,
	ActionDualWield:         twoWeaponRule,
	ActionHeavyArmor: {
		check: func(_ entities.ItemList, scores entities.AbilityScores) bool {
			return scores.Strength >= HeavyArmorMinStrength
		},
		reason:       fmt.Sprintf("You need Strength %d or higher to wear heavy armor without penalty.", HeavyArmorMinStrength),
		alternatives: []string{"Use medium armor", "Use light armor", "Improve your Strength score"},
	},
	ActionSpellcasting: {
		check: func(items entities.ItemList, _ entities.AbilityScores) bool {
			return items.ContainsAny(focusKeywords...)
		},
		reason:       "You need spell components or a focus to cast spells.",
		alternatives: []string{"Use a weapon attack", "Use an ability that doesn't require components", "Find spell components"},
	},
	ActionRangedAttack: {
		check: func(items entities.ItemList, _ entities.AbilityScores) bool {
			return items.ContainsAny(ammunitionKeywords...)
		},
		reason:       "You need ammunition for ranged attacks.",
		alternatives: []string{"Use a melee weapon", "Find ammunition", "Use a different action"},
	},
}

var twoWeaponRule = equipmentRule{
	check: func(items entities.ItemList, _ entities.AbilityScores) bool {
		return items.CountMatching(meleeWeaponKeywords...) >= 2
	},
	reason:       "You need two weapons to use two-weapon fighting.",
	alternatives: []string{"Use a single weapon", "Draw another weapon first", "Use a different action"},
}

// ValidateEquipment checks whether the character's equipment and inventory
// allow an action. Actions without a rule are always allowed.
func ValidateEquipment(action string, equipment, inventory entities.ItemList, scores entities.AbilityScores) ActionValidation {
	rule, ok := equipmentRules[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return ActionValidation{CanUse: true}
	}

	if rule.check(allItems(equipment, inventory), scores) {
		return ActionValidation{CanUse: true}
	}

	return ActionValidation{
		CanUse:       false,
		Reason:       rule.reason,
		Alternatives: append([]string{}, rule.alternatives...),
	}
}

// AvailableActions lists the combat actions the character's gear and strength allow
func AvailableActions(equipment, inventory entities.ItemList, scores entities.AbilityScores) []string {
	items := allItems(equipment, inventory)
	actions := append([]string{}, BaseActions...)

	if items.ContainsAny(meleeWeaponKeywords...) {
		actions = append(actions, "Melee Attack")
		if items.ContainsAny(shieldKeywords...) {
			actions = append(actions, "Shield Bash")
		}
	}

	if items.ContainsAny(rangedWeaponKeywords...) && items.ContainsAny("arrow", "bolt") {
		actions = append(actions, "Ranged Attack")
	}

	if items.ContainsAny(spellItemKeywords...) {
		actions = append(actions, "Cast Spell")
	}

	if AbilityModifier(scores.Strength) >= 0 {
		actions = append(actions, "Grapple", "Shove")
	}

	return actions
}

func allItems(equipment, inventory entities.ItemList) entities.ItemList {
	out := make(entities.ItemList, 0, len(equipment)+len(inventory))
	out = append(out, equipment...)
	return append(out, inventory...)
}
