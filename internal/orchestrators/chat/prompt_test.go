package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/chat"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

func TestBuildSystemPrompt_InventoryIsGrouped(t *testing.T) {
	c := testutils.CreateTestCharacter(testutils.TestCampaignID)
	c.Inventory = entities.ItemList{"Torch", "Arrows (20)", "Torch", "Arrows (5)"}

	prompt := chat.BuildSystemPrompt(&chat.PromptInput{Character: c})

	assert.Contains(t, prompt, "Inventory:\n  Torch (2)\n  Arrows (25)\n")
}

func TestBuildSystemPrompt_EmptyInventory(t *testing.T) {
	c := testutils.CreateTestCharacter(testutils.TestCampaignID)
	c.Inventory = nil

	prompt := chat.BuildSystemPrompt(&chat.PromptInput{Character: c})

	assert.Contains(t, prompt, "Inventory:\n  Empty\n")
}
