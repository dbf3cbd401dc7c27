// Package engine holds the combat and ability math used by the narrator prompt
// and the combat endpoints
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/dungeon-master/internal/engine Engine

import (
	"context"
)

// Engine provides rules calculations that may consult the SRD catalog
type Engine interface {
	// CombatProfile computes combat stats, speed and available actions for a character
	CombatProfile(ctx context.Context, input *CombatProfileInput) (*CombatProfileOutput, error)

	// ValidateAction checks an equipment-gated action. A failed check is a
	// normal result, never an error.
	ValidateAction(ctx context.Context, input *ValidateActionInput) (*ValidateActionOutput, error)

	// Utility methods
	CalculateAbilityModifier(score int) int
	CalculateProficiencyBonus(level int) int
}

// ArmorCatalog classifies armor by name. Implemented by the SRD client.
type ArmorCatalog interface {
	// ArmorCategory returns "light", "medium", "heavy" or "shield", or "" when
	// the item is not armor or unknown
	ArmorCategory(ctx context.Context, itemName string) (string, error)
}
