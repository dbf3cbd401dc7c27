// Package character defines the interface for character operations
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/dungeon-master/internal/services/character Service

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
)

// Service defines the interface for character operations
type Service interface {
	// Lifecycle
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GenerateCharacter(ctx context.Context, input *GenerateCharacterInput) (*GenerateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// ApplyMutation reduces a narrator mutation against the stored character,
	// persists it with a version check and logs the change to the session
	ApplyMutation(ctx context.Context, input *ApplyMutationInput) (*ApplyMutationOutput, error)

	// Combat helpers
	GetCombatProfile(ctx context.Context, input *GetCombatProfileInput) (*GetCombatProfileOutput, error)
	ValidateAction(ctx context.Context, input *ValidateActionInput) (*ValidateActionOutput, error)
}

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	Character *entities.Character
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// GenerateCharacterInput asks the narrator to roll up a new character
type GenerateCharacterInput struct {
	CampaignID    string
	UserID        string
	Name          string
	Class         string
	Race          string
	CampaignTitle string
	// SessionID, when set, receives the welcome message
	SessionID string
}

// GenerateCharacterOutput contains the stored character and the narrator's welcome
type GenerateCharacterOutput struct {
	Character      *entities.Character
	WelcomeMessage string
	// Fallback is true when the narrator response could not be used
	Fallback bool
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
}

// ListCharactersInput filters by campaign or, failing that, by owner
type ListCharactersInput struct {
	CampaignID string
	UserID     string
}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*entities.Character
}

// CharacterPatch is a partial edit. Nil fields are left unchanged.
type CharacterPatch struct {
	Name             *string                 `json:"name,omitempty"`
	Class            *string                 `json:"class,omitempty"`
	Level            *int                    `json:"level,omitempty"`
	Race             *string                 `json:"race,omitempty"`
	Background       *string                 `json:"background,omitempty"`
	ExperiencePoints *int                    `json:"experience_points,omitempty"`
	HitPoints        *int                    `json:"hit_points,omitempty"`
	MaxHitPoints     *int                    `json:"max_hit_points,omitempty"`
	ArmorClass       *int                    `json:"armor_class,omitempty"`
	AbilityScores    *entities.AbilityScores `json:"ability_scores,omitempty"`
	Skills           *entities.Skills        `json:"skills,omitempty"`
	Spells           *entities.ItemList      `json:"spells,omitempty"`
	Equipment        *entities.ItemList      `json:"equipment,omitempty"`
	Inventory        *entities.ItemList      `json:"inventory,omitempty"`
	Conditions       *[]string               `json:"conditions,omitempty"`
}

// UpdateCharacterInput edits a character. ExpectedVersion of 0 skips the
// caller-side version check; the store still guards against concurrent writes.
type UpdateCharacterInput struct {
	CharacterID     string
	Patch           *CharacterPatch
	ExpectedVersion int64
}

// UpdateCharacterOutput defines the response for updating a character
type UpdateCharacterOutput struct {
	Character *entities.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput reports what the cascade removed
type DeleteCharacterOutput struct {
	SessionsDeleted int
	MessagesDeleted int
}

// ApplyMutationInput defines the request for applying a mutation
type ApplyMutationInput struct {
	CharacterID string
	// SessionID receives the character_update system message when set
	SessionID       string
	Mutation        *narrative.Mutation
	ExpectedVersion int64
}

// ApplyMutationOutput contains the persisted character and what changed
type ApplyMutationOutput struct {
	Character *entities.Character
	Result    *reducer.Result
	// Message is the system message appended to the session, if any
	Message *entities.Message
}

// GetCombatProfileInput defines the request for a combat profile
type GetCombatProfileInput struct {
	CharacterID string
	BaseSpeed   int
}

// GetCombatProfileOutput wraps the engine's combat profile
type GetCombatProfileOutput struct {
	Profile *engine.CombatProfileOutput
}

// ValidateActionInput defines the request for an equipment check
type ValidateActionInput struct {
	CharacterID string
	Action      string
}

// ValidateActionOutput wraps the check result
type ValidateActionOutput struct {
	Result engine.ActionValidation
}
