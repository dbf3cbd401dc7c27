package engine

import (
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// CombatProfileInput contains the character to profile
type CombatProfileInput struct {
	Character *entities.Character
	// BaseSpeed overrides DefaultSpeed when positive
	BaseSpeed int
}

// CombatProfileOutput contains the computed combat view of a character
type CombatProfileOutput struct {
	Stats            CombatStats `json:"stats"`
	AvailableActions []string    `json:"available_actions"`
	Formatted        string      `json:"formatted"`
	HeavyArmor       bool        `json:"heavy_armor"`
}

// ValidateActionInput contains the action to check and the character attempting it
type ValidateActionInput struct {
	Action    string
	Character *entities.Character
}

// ValidateActionOutput wraps the validation result
type ValidateActionOutput struct {
	Result ActionValidation
}

// AttackBonuses is the melee/ranged/spell attack bonus triple
type AttackBonuses struct {
	Melee  int `json:"melee"`
	Ranged int `json:"ranged"`
	Spell  int `json:"spell"`
}

// HitPoints is the current/max pair shown in combat stats
type HitPoints struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// CombatStats summarizes a character for combat
type CombatStats struct {
	Initiative       int           `json:"initiative"`
	AttackBonus      AttackBonuses `json:"attack_bonus"`
	ProficiencyBonus int           `json:"proficiency_bonus"`
	ArmorClass       int           `json:"ac"`
	Speed            int           `json:"speed"`
	HP               HitPoints     `json:"hp"`
}

// ActionValidation is the outcome of an equipment check. Alternatives is
// always populated when CanUse is false.
type ActionValidation struct {
	CanUse       bool     `json:"can_use"`
	Reason       string   `json:"reason,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}
