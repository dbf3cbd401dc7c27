package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// armorCategoryHeavy is the catalog category that slows movement
const armorCategoryHeavy = "heavy"

type engine struct {
	armorCatalog ArmorCatalog
}

// Config holds the engine dependencies
type Config struct {
	// ArmorCatalog is optional; without it heavy armor is detected by name only
	ArmorCatalog ArmorCatalog
}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	return nil
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{armorCatalog: cfg.ArmorCatalog}, nil
}

func (e *engine) CalculateAbilityModifier(score int) int {
	return AbilityModifier(score)
}

func (e *engine) CalculateProficiencyBonus(level int) int {
	return ProficiencyBonus(level)
}

func (e *engine) CombatProfile(ctx context.Context, input *CombatProfileInput) (*CombatProfileOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	c := input.Character

	heavy := e.hasHeavyArmor(ctx, c)
	stats := BuildCombatStats(c, MovementSpeed(input.BaseSpeed, heavy, c.Conditions))

	return &CombatProfileOutput{
		Stats:            stats,
		AvailableActions: AvailableActions(c.Equipment, c.Inventory, c.AbilityScores),
		Formatted:        FormatCombatStats(stats),
		HeavyArmor:       heavy,
	}, nil
}

func (e *engine) ValidateAction(_ context.Context, input *ValidateActionInput) (*ValidateActionOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil, errors.InvalidArgument("action is required")
	}

	c := input.Character
	return &ValidateActionOutput{
		Result: ValidateEquipment(input.Action, c.Equipment, c.Inventory, c.AbilityScores),
	}, nil
}

// hasHeavyArmor matches equipment names first and falls back to the catalog.
// Catalog failures only cost accuracy, so they are logged and ignored.
func (e *engine) hasHeavyArmor(ctx context.Context, c *entities.Character) bool {
	if HasHeavyArmorByName(c.Equipment) {
		return true
	}
	if e.armorCatalog == nil {
		return false
	}

	for _, item := range c.Equipment {
		category, err := e.armorCatalog.ArmorCategory(ctx, item)
		if err != nil {
			slog.DebugContext(ctx, "armor catalog lookup failed",
				"item", item,
				"error", err.Error())
			continue
		}
		if strings.EqualFold(category, armorCategoryHeavy) {
			return true
		}
	}
	return false
}
