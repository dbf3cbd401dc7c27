package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

func TestValidateEquipment_ShieldBash(t *testing.T) {
	scores := entities.DefaultAbilityScores()

	result := engine.ValidateEquipment("Shield Bash", entities.ItemList{"Dagger"}, nil, scores)
	assert.False(t, result.CanUse)
	assert.NotEmpty(t, result.Reason)
	assert.NotEmpty(t, result.Alternatives)

	result = engine.ValidateEquipment("Shield Bash", entities.ItemList{"Shield", "Mace"}, nil, scores)
	assert.True(t, result.CanUse)
	assert.Empty(t, result.Alternatives)
}

func TestValidateEquipment_Table(t *testing.T) {
	weak := entities.DefaultAbilityScores()
	strong := weak
	strong.Strength = 13

	testCases := []struct {
		name      string
		action    string
		equipment entities.ItemList
		inventory entities.ItemList
		scores    entities.AbilityScores
		canUse    bool
		reason    string
	}{
		{"shield in inventory", "shield bash", nil, entities.ItemList{"Wooden Shield"}, weak, true, ""},
		{"one weapon", "Two-Weapon Fighting", entities.ItemList{"Longsword", "Rope"}, nil, weak, false, "You need two weapons to use two-weapon fighting."},
		{"two weapons", "Dual Wield", entities.ItemList{"Shortsword"}, entities.ItemList{"Dagger"}, weak, true, ""},
		{"heavy armor weak", "Heavy Armor", nil, nil, weak, false, "You need Strength 13 or higher to wear heavy armor without penalty."},
		{"heavy armor strong", "heavy armor", nil, nil, strong, true, ""},
		{"no focus", "Spellcasting", entities.ItemList{"Staff"}, nil, weak, false, "You need spell components or a focus to cast spells."},
		{"component pouch", "spellcasting", nil, entities.ItemList{"Component Pouch"}, weak, true, ""},
		{"no ammunition", "Ranged Attack", entities.ItemList{"Longbow"}, nil, weak, false, "You need ammunition for ranged attacks."},
		{"arrows", "ranged attack", entities.ItemList{"Longbow"}, entities.ItemList{"Arrows (20)"}, weak, true, ""},
		{"unknown action", "Juggle", nil, nil, weak, true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := engine.ValidateEquipment(tc.action, tc.equipment, tc.inventory, tc.scores)
			assert.Equal(t, tc.canUse, result.CanUse)
			assert.Equal(t, tc.reason, result.Reason)
			if !tc.canUse {
				assert.Len(t, result.Alternatives, 3)
			}
		})
	}
}

func TestAvailableActions(t *testing.T) {
	scores := entities.DefaultAbilityScores()

	actions := engine.AvailableActions(
		entities.ItemList{"Longsword", "Shield", "Shortbow"},
		entities.ItemList{"Arrows (20)", "Spell Scroll"},
		scores,
	)
	assert.Equal(t, []string{
		"Attack", "Move", "Dodge", "Disengage", "Dash", "Help",
		"Melee Attack", "Shield Bash", "Ranged Attack", "Cast Spell", "Grapple", "Shove",
	}, actions)

	scores.Strength = 8
	actions = engine.AvailableActions(nil, nil, scores)
	assert.Equal(t, engine.BaseActions, actions)
}
