// Package character implements the character orchestrator
package character

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/clients/external"
	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	"github.com/KirkDiggler/dungeon-master/internal/services/character"
)

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	SessionRepo   sessionrepo.Repository
	MessageRepo   messagerepo.Repository
	Engine        engine.Engine

	// ExternalClient seeds hit points of generated characters from the SRD; optional
	ExternalClient external.Client

	// LLMClient generates characters; GenerateCharacter fails without it
	LLMClient llm.Client

	CharacterIDGenerator idgen.Generator
	MessageIDGenerator   idgen.Generator

	// EventBus receives character events; optional
	EventBus events.EventBus

	// Clock defaults to the real clock
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.MessageRepo == nil {
		vb.RequiredField("MessageRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.CharacterIDGenerator == nil {
		vb.RequiredField("CharacterIDGenerator")
	}
	if c.MessageIDGenerator == nil {
		vb.RequiredField("MessageIDGenerator")
	}

	return vb.Build()
}

// Orchestrator implements the character.Service interface
type Orchestrator struct {
	characterRepo  characterrepo.Repository
	sessionRepo    sessionrepo.Repository
	messageRepo    messagerepo.Repository
	engine         engine.Engine
	externalClient external.Client
	llmClient      llm.Client
	characterIDs   idgen.Generator
	messageIDs     idgen.Generator
	bus            events.EventBus
	clock          clock.Clock
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Orchestrator{
		characterRepo:  cfg.CharacterRepo,
		sessionRepo:    cfg.SessionRepo,
		messageRepo:    cfg.MessageRepo,
		engine:         cfg.Engine,
		externalClient: cfg.ExternalClient,
		llmClient:      cfg.LLMClient,
		characterIDs:   cfg.CharacterIDGenerator,
		messageIDs:     cfg.MessageIDGenerator,
		bus:            cfg.EventBus,
		clock:          clk,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ character.Service = (*Orchestrator)(nil)

// CreateCharacter stores a new character with sheet defaults filled in
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *character.CreateCharacterInput) (*character.CreateCharacterOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Character.Name, vb)
	errors.ValidateRequired("campaign_id", input.Character.CampaignID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char := input.Character.Clone()
	char.ID = o.characterIDs.Generate()
	applyDefaults(char)

	out, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	slog.InfoContext(ctx, "Character created",
		"character_id", out.Character.ID,
		"campaign_id", out.Character.CampaignID)

	audit.Publish(ctx, o.bus, audit.EventCharacterCreated, out.Character, nil)

	return &character.CreateCharacterOutput{Character: out.Character}, nil
}

// GetCharacter retrieves a character by ID
func (o *Orchestrator) GetCharacter(ctx context.Context, input *character.GetCharacterInput) (*character.GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character").
			WithMeta("character_id", input.CharacterID)
	}

	return &character.GetCharacterOutput{Character: out.Character}, nil
}

// ListCharacters lists a campaign's characters, or a user's when no campaign is given
func (o *Orchestrator) ListCharacters(ctx context.Context, input *character.ListCharactersInput) (*character.ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	switch {
	case input.CampaignID != "":
		out, err := o.characterRepo.ListByCampaignID(ctx, characterrepo.ListByCampaignIDInput{CampaignID: input.CampaignID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list characters")
		}
		return &character.ListCharactersOutput{Characters: out.Characters}, nil

	case input.UserID != "":
		out, err := o.characterRepo.ListByUserID(ctx, characterrepo.ListByUserIDInput{UserID: input.UserID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list characters")
		}
		return &character.ListCharactersOutput{Characters: out.Characters}, nil

	default:
		return nil, errors.InvalidArgument("campaign ID or user ID is required")
	}
}

// UpdateCharacter applies a partial edit. Ability scores are clamped to 1-20.
func (o *Orchestrator) UpdateCharacter(ctx context.Context, input *character.UpdateCharacterInput) (*character.UpdateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.Patch == nil {
		return nil, errors.InvalidArgument("patch is required")
	}

	current, err := o.load(ctx, input.CharacterID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := applyPatch(next, input.Patch); err != nil {
		return nil, err
	}

	out, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: next})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update character").
			WithMeta("character_id", input.CharacterID)
	}

	slog.InfoContext(ctx, "Character edited",
		"character_id", out.Character.ID,
		"version", out.Character.Version)

	audit.Publish(ctx, o.bus, audit.EventCharacterUpdated, out.Character, map[string]interface{}{
		audit.KeyVersion: out.Character.Version,
	})

	return &character.UpdateCharacterOutput{Character: out.Character}, nil
}

// DeleteCharacter removes a character and every session pinned to it
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *character.DeleteCharacterInput) (*character.DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	getOut, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character").
			WithMeta("character_id", input.CharacterID)
	}
	char := getOut.Character

	sessions, err := o.sessionRepo.ListByCampaignID(ctx, sessionrepo.ListByCampaignIDInput{CampaignID: char.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	output := &character.DeleteCharacterOutput{}
	for _, s := range sessions.Sessions {
		if s.CharacterID != char.ID {
			continue
		}

		msgOut, err := o.messageRepo.DeleteBySessionID(ctx, messagerepo.DeleteBySessionIDInput{SessionID: s.ID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to delete messages of session %s", s.ID)
		}
		if _, err := o.sessionRepo.Delete(ctx, sessionrepo.DeleteInput{ID: s.ID}); err != nil && !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to delete session %s", s.ID)
		}
		output.SessionsDeleted++
		output.MessagesDeleted += msgOut.MessagesDeleted
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: char.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete character").
			WithMeta("character_id", char.ID)
	}

	slog.InfoContext(ctx, "Character deleted",
		"character_id", char.ID,
		"sessions_deleted", output.SessionsDeleted,
		"messages_deleted", output.MessagesDeleted)

	audit.Publish(ctx, o.bus, audit.EventCharacterDeleted, char, nil)

	return output, nil
}

// GetCombatProfile computes combat stats, actions and speed for a character
func (o *Orchestrator) GetCombatProfile(ctx context.Context, input *character.GetCombatProfileInput) (*character.GetCombatProfileOutput, error) {
	if input == nil || input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := o.load(ctx, input.CharacterID, 0)
	if err != nil {
		return nil, err
	}

	profile, err := o.engine.CombatProfile(ctx, &engine.CombatProfileInput{
		Character: char,
		BaseSpeed: input.BaseSpeed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute combat profile")
	}

	return &character.GetCombatProfileOutput{Profile: profile}, nil
}

// ValidateAction checks whether the character's gear allows an action
func (o *Orchestrator) ValidateAction(ctx context.Context, input *character.ValidateActionInput) (*character.ValidateActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateRequired("action", input.Action, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.load(ctx, input.CharacterID, 0)
	if err != nil {
		return nil, err
	}

	out, err := o.engine.ValidateAction(ctx, &engine.ValidateActionInput{
		Action:    input.Action,
		Character: char,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate action")
	}

	return &character.ValidateActionOutput{Result: out.Result}, nil
}

// load fetches a character and, when expectedVersion is set, checks it is current
func (o *Orchestrator) load(ctx context.Context, characterID string, expectedVersion int64) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character").
			WithMeta("character_id", characterID)
	}

	if expectedVersion > 0 && out.Character.Version != expectedVersion {
		return nil, errors.Abortedf("character %s is at version %d, expected %d",
			characterID, out.Character.Version, expectedVersion).
			WithMeta("character_id", characterID)
	}

	return out.Character, nil
}

func applyDefaults(c *entities.Character) {
	if c.Level < 1 {
		c.Level = 1
	}
	if c.AbilityScores == (entities.AbilityScores{}) {
		c.AbilityScores = entities.DefaultAbilityScores()
	}
	c.AbilityScores = c.AbilityScores.Clamp()
	if c.ExperiencePoints < 0 {
		c.ExperiencePoints = 0
	}
	if c.MaxHitPoints < 0 {
		c.MaxHitPoints = 0
	}
	if c.HitPoints < 0 {
		c.HitPoints = 0
	}
	if c.ArmorClass == 0 {
		c.ArmorClass = FallbackArmorClass
	}
}

func applyPatch(c *entities.Character, p *character.CharacterPatch) error {
	vb := errors.NewValidationBuilder()

	if p.Name != nil {
		errors.ValidateRequired("name", *p.Name, vb)
		c.Name = *p.Name
	}
	if p.Class != nil {
		c.Class = *p.Class
	}
	if p.Level != nil {
		if *p.Level < 1 {
			vb.InvalidField("level", "must be at least 1")
		}
		c.Level = *p.Level
	}
	if p.Race != nil {
		c.Race = *p.Race
	}
	if p.Background != nil {
		c.Background = *p.Background
	}
	if p.ExperiencePoints != nil {
		if *p.ExperiencePoints < 0 {
			vb.InvalidField("experience_points", "must not be negative")
		}
		c.ExperiencePoints = *p.ExperiencePoints
	}
	if p.HitPoints != nil {
		c.HitPoints = *p.HitPoints
	}
	if p.MaxHitPoints != nil {
		if *p.MaxHitPoints < 0 {
			vb.InvalidField("max_hit_points", "must not be negative")
		}
		c.MaxHitPoints = *p.MaxHitPoints
	}
	if p.ArmorClass != nil {
		c.ArmorClass = *p.ArmorClass
	}
	if p.AbilityScores != nil {
		c.AbilityScores = p.AbilityScores.Clamp()
	}
	if p.Skills != nil {
		c.Skills = *p.Skills
	}
	if p.Spells != nil {
		c.Spells = p.Spells.Clone()
	}
	if p.Equipment != nil {
		c.Equipment = p.Equipment.Clone()
	}
	if p.Inventory != nil {
		c.Inventory = p.Inventory.Clone()
	}
	if p.Conditions != nil {
		c.Conditions = append([]string{}, (*p.Conditions)...)
	}

	return vb.Build()
}
