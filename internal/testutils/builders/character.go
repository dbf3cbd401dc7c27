// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	character *entities.Character
}

// NewCharacterBuilder creates a new builder with minimal defaults
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		character: &entities.Character{
			ID:            "chr-test-123",
			CampaignID:    "cmp-test-123",
			Name:          "Test Character",
			Level:         1,
			HitPoints:     10,
			MaxHitPoints:  10,
			ArmorClass:    10,
			AbilityScores: entities.DefaultAbilityScores(),
			Version:       1,
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithCampaignID sets the campaign ID
func (b *CharacterBuilder) WithCampaignID(campaignID string) *CharacterBuilder {
	b.character.CampaignID = campaignID
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithClass sets the class and level
func (b *CharacterBuilder) WithClass(class string, level int) *CharacterBuilder {
	b.character.Class = class
	b.character.Level = level
	return b
}

// WithRace sets the race
func (b *CharacterBuilder) WithRace(race string) *CharacterBuilder {
	b.character.Race = race
	return b
}

// WithHitPoints sets current and maximum hit points
func (b *CharacterBuilder) WithHitPoints(current, maxHP int) *CharacterBuilder {
	b.character.HitPoints = current
	b.character.MaxHitPoints = maxHP
	return b
}

// WithAbilityScores sets all six ability scores
func (b *CharacterBuilder) WithAbilityScores(str, dex, con, intel, wis, cha int) *CharacterBuilder {
	b.character.AbilityScores = entities.AbilityScores{
		Strength:     str,
		Dexterity:    dex,
		Constitution: con,
		Intelligence: intel,
		Wisdom:       wis,
		Charisma:     cha,
	}
	return b
}

// WithEquipment replaces the equipment list
func (b *CharacterBuilder) WithEquipment(items ...string) *CharacterBuilder {
	b.character.Equipment = append(entities.ItemList{}, items...)
	return b
}

// WithInventory replaces the inventory list
func (b *CharacterBuilder) WithInventory(items ...string) *CharacterBuilder {
	b.character.Inventory = append(entities.ItemList{}, items...)
	return b
}

// WithSkills sets skill bonuses
func (b *CharacterBuilder) WithSkills(skills map[string]int) *CharacterBuilder {
	b.character.Skills = entities.Skills(skills)
	return b
}

// WithConditions replaces the active conditions
func (b *CharacterBuilder) WithConditions(conditions ...string) *CharacterBuilder {
	b.character.Conditions = append([]string{}, conditions...)
	return b
}

// WithVersion sets the stored version
func (b *CharacterBuilder) WithVersion(version int64) *CharacterBuilder {
	b.character.Version = version
	return b
}

// Build returns a copy of the built character
func (b *CharacterBuilder) Build() *entities.Character {
	return b.character.Clone()
}
