package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

func TestAbilityModifier(t *testing.T) {
	expected := map[int]int{
		1: -5, 2: -4, 3: -4, 4: -3, 5: -3, 6: -2, 7: -2, 8: -1, 9: -1, 10: 0,
		11: 0, 12: 1, 13: 1, 14: 2, 15: 2, 16: 3, 17: 3, 18: 4, 19: 4, 20: 5,
	}

	for score := 1; score <= 20; score++ {
		t.Run(fmt.Sprintf("score_%d", score), func(t *testing.T) {
			assert.Equal(t, expected[score], engine.AbilityModifier(score))
		})
	}
}

func TestProficiencyBonus(t *testing.T) {
	testCases := []struct {
		level    int
		expected int
	}{
		{0, 2}, {1, 2}, {4, 2}, {5, 3}, {9, 4}, {13, 5}, {17, 6}, {20, 6},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, engine.ProficiencyBonus(tc.level), "level %d", tc.level)
	}
}

func TestAttackBonus(t *testing.T) {
	scores := entities.AbilityScores{
		Strength: 16, Dexterity: 12, Constitution: 10,
		Intelligence: 18, Wisdom: 8, Charisma: 14,
	}

	testCases := []struct {
		class    string
		expected engine.AttackBonuses
	}{
		{"Wizard", engine.AttackBonuses{Melee: 5, Ranged: 3, Spell: 6}},
		{"cleric", engine.AttackBonuses{Melee: 5, Ranged: 3, Spell: 1}},
		{"Paladin", engine.AttackBonuses{Melee: 5, Ranged: 3, Spell: 4}},
		{"Fighter", engine.AttackBonuses{Melee: 5, Ranged: 3, Spell: 5}},
		{"", engine.AttackBonuses{Melee: 5, Ranged: 3, Spell: 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.class, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.AttackBonus(scores, tc.class, 0))
		})
	}

	assert.Equal(t, engine.AttackBonuses{Melee: 6, Ranged: 4, Spell: 7}, engine.AttackBonus(scores, "Wizard", 3))
}

func TestMovementSpeed(t *testing.T) {
	testCases := []struct {
		name       string
		base       int
		heavy      bool
		conditions []string
		expected   int
	}{
		{"default", 0, false, nil, 30},
		{"heavy armor", 30, true, nil, 20},
		{"slowed", 30, false, []string{"Slowed"}, 15},
		{"slowed odd", 25, false, []string{"slowed"}, 12},
		{"exhausted", 30, false, []string{"Exhausted"}, 20},
		{"everything", 30, true, []string{"Slowed", "Exhausted"}, 5},
		{"floor", 10, true, nil, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.MovementSpeed(tc.base, tc.heavy, tc.conditions))
		})
	}
}

func TestHasHeavyArmorByName(t *testing.T) {
	assert.True(t, engine.HasHeavyArmorByName(entities.ItemList{"Plate Armor"}))
	assert.True(t, engine.HasHeavyArmorByName(entities.ItemList{"Heavy Crossbow"}))
	assert.False(t, engine.HasHeavyArmorByName(entities.ItemList{"Leather Armor"}))
}

func TestFormatCombatStats(t *testing.T) {
	stats := engine.CombatStats{
		Initiative:  -1,
		AttackBonus: engine.AttackBonuses{Melee: 5, Ranged: 1, Spell: 3},
		ArmorClass:  16,
		Speed:       25,
		HP:          engine.HitPoints{Current: 9, Max: 12},
	}

	assert.Equal(t,
		"Combat Stats:\nInitiative: -1\nAttack Bonus: Melee +5, Ranged +1, Spell +3\nAC: 16\nSpeed: 25 feet\nHP: 9/12",
		engine.FormatCombatStats(stats),
	)
}
