package testutils

import (
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// Fixture identifiers
const (
	TestUserID     = "user-test-001"
	TestCampaignID = "cmp-test-001"
	TestSessionID  = "ses-test-001"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Thorin Oakenshield"
)

// CreateTestCharacter creates a level 1 fighter in the given campaign
func CreateTestCharacter(campaignID string) *entities.Character {
	return &entities.Character{
		ID:               "chr-test-001",
		UserID:           TestUserID,
		CampaignID:       campaignID,
		Name:             TestCharacterName,
		Class:            "Fighter",
		Level:            1,
		Race:             "Dwarf",
		ExperiencePoints: 0,
		HitPoints:        12,
		MaxHitPoints:     12,
		ArmorClass:       16,
		AbilityScores:    *CreateTestAbilityScores(),
		Skills:           entities.Skills{"Athletics": 2, "Perception": 0},
		Equipment:        entities.ItemList{"Longsword", "Shield", "Chain Mail"},
		Inventory:        entities.ItemList{"Torch", "Rope", "Gold Pouch (10)"},
		Version:          1,
	}
}

// CreateTestAbilityScores creates standard array ability scores
func CreateTestAbilityScores() *entities.AbilityScores {
	return &entities.AbilityScores{
		Strength:     15,
		Dexterity:    14,
		Constitution: 13,
		Intelligence: 12,
		Wisdom:       10,
		Charisma:     8,
	}
}

// CreateTestCampaign creates an active campaign owned by the test user
func CreateTestCampaign() *entities.Campaign {
	return &entities.Campaign{
		ID:     TestCampaignID,
		UserID: TestUserID,
		Title:  "The Lost Mine",
		Status: entities.CampaignStatusActive,
	}
}

// CreateTestSession creates a solo session for a character
func CreateTestSession(campaignID, characterID string) *entities.Session {
	return &entities.Session{
		ID:          TestSessionID,
		UserID:      TestUserID,
		CampaignID:  campaignID,
		CharacterID: characterID,
		Title:       "Session 1",
	}
}
