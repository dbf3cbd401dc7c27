package engine

import (
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// Defaults for combat math
const (
	DefaultProficiencyBonus = 2
	DefaultSpeed            = 30
	MinSpeed                = 5
	HeavyArmorSpeedPenalty  = 10
	ExhaustedSpeedPenalty   = 10

	ConditionSlowed    = "Slowed"
	ConditionExhausted = "Exhausted"
)

// spellcastingAbility maps a class to the ability its spells key off
var spellcastingAbility = map[string]string{
	"wizard":   entities.AbilityIntelligence,
	"cleric":   entities.AbilityWisdom,
	"druid":    entities.AbilityWisdom,
	"ranger":   entities.AbilityWisdom,
	"sorcerer": entities.AbilityCharisma,
	"warlock":  entities.AbilityCharisma,
	"bard":     entities.AbilityCharisma,
	"paladin":  entities.AbilityCharisma,
}

var heavyArmorKeywords = []string{"plate", "heavy"}

// AbilityModifier returns floor((score-10)/2)
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		// integer division truncates toward zero
		return (diff - 1) / 2
	}
	return diff / 2
}

// ProficiencyBonus returns 2 + (level-1)/4, with levels below 1 treated as 1
func ProficiencyBonus(level int) int {
	if level < 1 {
		return DefaultProficiencyBonus
	}
	return DefaultProficiencyBonus + (level-1)/4
}

// SpellcastingAbility returns the ability key a class casts with, or "" for
// classes without one
func SpellcastingAbility(class string) string {
	return spellcastingAbility[strings.ToLower(strings.TrimSpace(class))]
}

// AttackBonus computes melee (STR), ranged (DEX) and spell attack bonuses.
// Classes without a spellcasting ability use the better of STR and DEX.
// A proficiency of 0 or less uses DefaultProficiencyBonus.
func AttackBonus(scores entities.AbilityScores, class string, proficiency int) AttackBonuses {
	if proficiency <= 0 {
		proficiency = DefaultProficiencyBonus
	}

	strMod := AbilityModifier(scores.Strength)
	dexMod := AbilityModifier(scores.Dexterity)

	spellMod := max(strMod, dexMod)
	if ability := SpellcastingAbility(class); ability != "" {
		spellMod = AbilityModifier(scores.Get(ability))
	}

	return AttackBonuses{
		Melee:  strMod + proficiency,
		Ranged: dexMod + proficiency,
		Spell:  spellMod + proficiency,
	}
}

// Initiative is the DEX modifier
func Initiative(dexModifier int) int {
	return dexModifier
}

// HasHeavyArmorByName reports whether any item name marks heavy armor
func HasHeavyArmorByName(equipment entities.ItemList) bool {
	return equipment.ContainsAny(heavyArmorKeywords...)
}

// MovementSpeed applies heavy armor (-10), Slowed (halved, floor) and
// Exhausted (-10) in that order, never going below MinSpeed. A base of 0 or
// less uses DefaultSpeed.
func MovementSpeed(base int, heavyArmor bool, conditions []string) int {
	speed := base
	if speed <= 0 {
		speed = DefaultSpeed
	}

	if heavyArmor {
		speed -= HeavyArmorSpeedPenalty
	}
	if hasCondition(conditions, ConditionSlowed) {
		speed /= 2
	}
	if hasCondition(conditions, ConditionExhausted) {
		speed -= ExhaustedSpeedPenalty
	}

	if speed < MinSpeed {
		return MinSpeed
	}
	return speed
}

func hasCondition(conditions []string, name string) bool {
	for _, c := range conditions {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return true
		}
	}
	return false
}
