package reducer_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
)

type ReducerTestSuite struct {
	suite.Suite
	character *entities.Character
}

func TestReducerSuite(t *testing.T) {
	suite.Run(t, new(ReducerTestSuite))
}

func (s *ReducerTestSuite) SetupTest() {
	s.character = &entities.Character{
		ID:               "char-1",
		Name:             "Mira",
		Level:            2,
		ExperiencePoints: 300,
		HitPoints:        10,
		MaxHitPoints:     14,
		ArmorClass:       13,
		Inventory:        entities.ItemList{"Torch", "Sword"},
		Conditions:       []string{"Poisoned"},
	}
}

func intPtr(n int) *int { return &n }

func (s *ReducerTestSuite) TestRemoveBeforeAdd() {
	_, m := narrative.ExtractMutation(`{"characterUpdates": {"inventory_add": ["Rope"], "inventory_remove": ["Torch"]}}`)
	s.Require().NotNil(m)

	result := reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Sword", "Rope"}, result.Next.Inventory)
	s.Equal("Character updated: Added: Rope, Removed: Torch", result.Summary)
	s.Require().Len(result.Changes, 1)
	s.Equal(reducer.FieldInventory, result.Changes[0].Field)
}

func (s *ReducerTestSuite) TestInputIsNotMutated() {
	m := &narrative.Mutation{InventoryAdd: entities.ItemList{"Rope"}, HitPoints: intPtr(-4)}

	reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Torch", "Sword"}, s.character.Inventory)
	s.Equal(10, s.character.HitPoints)
}

func (s *ReducerTestSuite) TestNotIdempotent() {
	m := &narrative.Mutation{
		ExperiencePoints: intPtr(50),
		InventoryAdd:     entities.ItemList{"Rope"},
	}

	once := reducer.Reduce(s.character, m)
	twice := reducer.Reduce(once.Next, m)

	s.Equal(350, once.Next.ExperiencePoints)
	s.Equal(400, twice.Next.ExperiencePoints)
	s.Equal(entities.ItemList{"Torch", "Sword", "Rope", "Rope"}, twice.Next.Inventory)
}

func (s *ReducerTestSuite) TestRemoveAtMostOnePerName() {
	s.character.Inventory = entities.ItemList{"Arrow", "Torch", "Arrow"}
	m := &narrative.Mutation{InventoryRemove: entities.ItemList{"Arrow", "Lantern"}}

	result := reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Torch", "Arrow"}, result.Next.Inventory)
}

func (s *ReducerTestSuite) TestRemoveMissingIsNoop() {
	m := &narrative.Mutation{InventoryRemove: entities.ItemList{"Lantern"}}

	result := reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Torch", "Sword"}, result.Next.Inventory)
	s.False(result.Changed())
	s.Empty(result.Summary)
}

func (s *ReducerTestSuite) TestWholesaleInventoryThenAdds() {
	m := &narrative.Mutation{
		HasInventory: true,
		Inventory:    entities.ItemList{"Map"},
		InventoryAdd: entities.ItemList{"Compass"},
	}

	result := reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Map", "Compass"}, result.Next.Inventory)
	s.Equal("Character updated: Inventory: Map, Added: Compass", result.Summary)
}

func (s *ReducerTestSuite) TestWholesaleInventoryInSummary() {
	m := &narrative.Mutation{
		HasInventory:     true,
		ExperiencePoints: intPtr(10),
		ArmorClass:       intPtr(14),
	}

	result := reducer.Reduce(s.character, m)

	s.Empty(result.Next.Inventory)
	s.Equal("Character updated: Inventory: none, XP: +10, AC: 14", result.Summary)
}

func (s *ReducerTestSuite) TestUnchangedInventoryReplacementNotSummarized() {
	m := &narrative.Mutation{
		HasInventory:     true,
		Inventory:        entities.ItemList{"Torch", "Sword"},
		ExperiencePoints: intPtr(10),
	}

	result := reducer.Reduce(s.character, m)

	s.Equal("Character updated: XP: +10", result.Summary)
}

func (s *ReducerTestSuite) TestNullFieldsLeaveCharacterUnchanged() {
	_, m := narrative.ExtractMutation(`The fight is over.

characterUpdates: {"experience_points": 10, "armor_class": null, "inventory": null, "hit_points": null, "conditions": null}`)
	s.Require().NotNil(m)

	result := reducer.Reduce(s.character, m)

	s.Equal(13, result.Next.ArmorClass)
	s.Equal(10, result.Next.HitPoints)
	s.Equal(entities.ItemList{"Torch", "Sword"}, result.Next.Inventory)
	s.Equal([]string{"Poisoned"}, result.Next.Conditions)
	s.Equal(310, result.Next.ExperiencePoints)
	s.Equal("Character updated: XP: +10", result.Summary)
}

func (s *ReducerTestSuite) TestQuantityEdit() {
	s.character.Inventory = entities.ItemList{"Gold Pouch (10)", "Sword"}
	m := &narrative.Mutation{InventoryEdit: map[string]string{"Gold Pouch (10)": "Gold Pouch (5)"}}

	result := reducer.Reduce(s.character, m)

	s.Equal(entities.ItemList{"Gold Pouch (5)", "Sword"}, result.Next.Inventory)
	s.Contains(result.Summary, "Edited: Gold Pouch (10) -> Gold Pouch (5)")
}

func (s *ReducerTestSuite) TestHitPointsClampAtZero() {
	result := reducer.Reduce(s.character, &narrative.Mutation{HitPoints: intPtr(-25)})

	s.Equal(0, result.Next.HitPoints)
	s.Equal("Character updated: HP: -25", result.Summary)
}

func (s *ReducerTestSuite) TestHealingAboveMaxIsSurfaced() {
	result := reducer.Reduce(s.character, &narrative.Mutation{HitPoints: intPtr(8)})

	s.Equal(18, result.Next.HitPoints)
	s.Equal("Character updated: HP: +8 (above max)", result.Summary)
}

func (s *ReducerTestSuite) TestNegativeExperienceIgnored() {
	result := reducer.Reduce(s.character, &narrative.Mutation{ExperiencePoints: intPtr(-100)})

	s.Equal(300, result.Next.ExperiencePoints)
	s.False(result.Changed())
	s.Empty(result.Summary)
}

func (s *ReducerTestSuite) TestArmorClassAndConditions() {
	m := &narrative.Mutation{
		ArmorClass:    intPtr(15),
		HasConditions: true,
		Conditions:    []string{"Blessed"},
	}

	result := reducer.Reduce(s.character, m)

	s.Equal(15, result.Next.ArmorClass)
	s.Equal([]string{"Blessed"}, result.Next.Conditions)
	s.Equal("Character updated: AC: 15, Conditions: Blessed", result.Summary)
	s.Len(result.Changes, 2)
}

func (s *ReducerTestSuite) TestClearConditions() {
	result := reducer.Reduce(s.character, &narrative.Mutation{HasConditions: true})

	s.Empty(result.Next.Conditions)
	s.Equal("Character updated: Conditions: none", result.Summary)
}

func (s *ReducerTestSuite) TestEmptyMutation() {
	result := reducer.Reduce(s.character, nil)

	s.Equal(s.character, result.Next)
	s.NotSame(s.character, result.Next)
	s.False(result.Changed())
}

func (s *ReducerTestSuite) TestFullSummaryOrder() {
	m := &narrative.Mutation{
		InventoryAdd:     entities.ItemList{"Rope"},
		InventoryRemove:  entities.ItemList{"Torch"},
		ExperiencePoints: intPtr(50),
		HitPoints:        intPtr(-3),
		HasConditions:    true,
		Conditions:       []string{"Poisoned"},
	}

	result := reducer.Reduce(s.character, m)

	s.Equal("Character updated: Added: Rope, Removed: Torch, XP: +50, HP: -3, Conditions: Poisoned", result.Summary)
	s.Equal(7, result.Next.HitPoints)
}
