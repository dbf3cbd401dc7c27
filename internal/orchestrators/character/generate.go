package character

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	"github.com/KirkDiggler/dungeon-master/internal/services/character"
)

const generationPrompt = `You are an AI Dungeon Master creating a new D&D 5e character. Generate appropriate stats and provide a welcome message.

CHARACTER INFO:
Name: %s
Class: %s
Race: %s
Campaign: %s

TASK:
1. Generate appropriate D&D 5e stats for this character
2. Provide a welcoming message as the DM introducing this new adventurer

RESPONSE FORMAT:
Respond with a JSON object containing:

{
  "welcomeMessage": "Your welcoming message as the DM...",
  "characterStats": {
    "ability_scores": {"str": 14, "dex": 12, "con": 16, "int": 10, "wis": 14, "cha": 8},
    "hit_points": 12,
    "max_hit_points": 12,
    "armor_class": 15,
    "skills": ["Athletics", "Perception", "Survival"],
    "spells": [],
    "equipment": ["Longsword", "Shield", "Backpack", "Bedroll"],
    "inventory": ["Rations (5 days)", "Waterskin", "50 feet of rope"],
    "conditions": []
  }
}

STAT GENERATION RULES:
- Use standard D&D 5e ability score generation (4d6 drop lowest, or point buy equivalent)
- HP should be appropriate for the class and CON modifier
- AC should be reasonable for the class (10-18 range)
- Skills should match the character's class and background
- Equipment should be starting gear appropriate for the class
- Inventory should include basic adventuring supplies

CLASS-SPECIFIC GUIDANCE:
- Fighter: Higher STR/CON, martial weapons, armor
- Wizard: Higher INT, spells, arcane focus
- Cleric: Higher WIS, divine spells, holy symbol
- Rogue: Higher DEX, stealth skills, light weapons
- Ranger: Balanced DEX/WIS, survival skills, ranged weapons
- Paladin: Higher STR/CHA, heavy armor, divine spells

Make the welcome message exciting and thematic! You can include dice rolls if appropriate, such as:
- "Let's see what fate has in store for you! [DICE:d20:Destiny Check]"
- "Your journey begins with a test of luck! [DICE:d100:Fortune Roll]"

But only include dice rolls if they make thematic sense for the character's introduction.`

// generatedCharacter is the narrator's JSON answer
type generatedCharacter struct {
	WelcomeMessage string          `json:"welcomeMessage"`
	CharacterStats *generatedStats `json:"characterStats"`
}

type generatedStats struct {
	AbilityScores *entities.AbilityScores `json:"ability_scores"`
	HitPoints     *int                    `json:"hit_points"`
	MaxHitPoints  *int                    `json:"max_hit_points"`
	ArmorClass    *int                    `json:"armor_class"`
	Skills        entities.Skills         `json:"skills"`
	Spells        entities.ItemList       `json:"spells"`
	Equipment     entities.ItemList       `json:"equipment"`
	Inventory     entities.ItemList       `json:"inventory"`
	Conditions    []string                `json:"conditions"`
}

// GenerateCharacter asks the narrator for starting stats and a welcome
// message. A response that cannot be parsed falls back to fixed starting
// stats; a failed request is a provider error.
func (o *Orchestrator) GenerateCharacter(ctx context.Context, input *character.GenerateCharacterInput) (*character.GenerateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("campaign_id", input.CampaignID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if o.llmClient == nil {
		return nil, errors.FailedPrecondition("narrator is not configured")
	}

	class := orDefault(input.Class, DefaultClass)
	race := orDefault(input.Race, DefaultRace)

	completion, err := o.llmClient.Complete(ctx, &llm.CompleteInput{
		Messages: []llm.Message{
			{
				Role:    llm.RoleSystem,
				Content: fmt.Sprintf(generationPrompt, input.Name, class, race, orDefault(input.CampaignTitle, DefaultCampaignTitle)),
			},
			{
				Role:    llm.RoleUser,
				Content: fmt.Sprintf("Create a new character: %s, a %s %s", input.Name, race, class),
			},
		},
		Temperature:    generationTemperature,
		MaxTokens:      generationMaxTokens,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, errors.Provider(err, "failed to generate character")
	}

	char := &entities.Character{
		UserID:     input.UserID,
		CampaignID: input.CampaignID,
		Name:       input.Name,
		Class:      class,
		Race:       race,
		Level:      1,
	}

	welcome, fallback := "", false
	generated, parseErr := parseGenerated(completion.Content)
	if parseErr != nil {
		slog.WarnContext(ctx, "Using fallback stats for generated character",
			"name", input.Name,
			"error", parseErr.Error())
		applyFallback(char)
		welcome = fallbackWelcome(input.Name)
		fallback = true
	} else {
		o.applyGenerated(ctx, char, generated.CharacterStats)
		welcome = generated.WelcomeMessage
	}

	created, err := o.CreateCharacter(ctx, &character.CreateCharacterInput{Character: char})
	if err != nil {
		return nil, err
	}

	if input.SessionID != "" {
		msg := &entities.Message{
			ID:        o.messageIDs.Generate(),
			SessionID: input.SessionID,
			Role:      entities.RoleAssistant,
			Content:   welcome,
			Metadata: map[string]interface{}{
				MetaType:      entities.MessageTypeAIResponse,
				MetaCharacter: created.Character.ID,
			},
		}
		if _, err := o.messageRepo.Append(ctx, messagerepo.AppendInput{Message: msg}); err != nil {
			slog.WarnContext(ctx, "failed to log welcome message",
				"character_id", created.Character.ID,
				"session_id", input.SessionID,
				"error", err.Error())
		}
	}

	return &character.GenerateCharacterOutput{
		Character:      created.Character,
		WelcomeMessage: welcome,
		Fallback:       fallback,
	}, nil
}

func parseGenerated(content string) (*generatedCharacter, error) {
	body := strings.TrimSpace(content)
	start, end := strings.Index(body, "{"), strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, errors.InvalidArgument("response contains no JSON object")
	}

	var out generatedCharacter
	if err := json.Unmarshal([]byte(body[start:end+1]), &out); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "response is not valid JSON")
	}
	if out.WelcomeMessage == "" || out.CharacterStats == nil {
		return nil, errors.InvalidArgument("response is missing welcomeMessage or characterStats")
	}
	return &out, nil
}

func (o *Orchestrator) applyGenerated(ctx context.Context, c *entities.Character, stats *generatedStats) {
	c.AbilityScores = entities.DefaultAbilityScores()
	if stats.AbilityScores != nil {
		c.AbilityScores = stats.AbilityScores.Clamp()
	}
	if stats.ArmorClass != nil {
		c.ArmorClass = *stats.ArmorClass
	}
	c.Skills = stats.Skills
	c.Spells = stats.Spells
	c.Equipment = stats.Equipment
	c.Inventory = stats.Inventory
	c.Conditions = stats.Conditions

	switch {
	case stats.MaxHitPoints != nil:
		c.MaxHitPoints = *stats.MaxHitPoints
	case stats.HitPoints != nil:
		c.MaxHitPoints = *stats.HitPoints
	default:
		c.MaxHitPoints = o.startingHitPoints(ctx, c)
	}
	c.HitPoints = c.MaxHitPoints
	if stats.HitPoints != nil {
		c.HitPoints = *stats.HitPoints
	}
}

// startingHitPoints is the class hit die plus the constitution modifier, at least 1
func (o *Orchestrator) startingHitPoints(ctx context.Context, c *entities.Character) int {
	hitDie := FallbackHitPoints
	if o.externalClient != nil {
		die, err := o.externalClient.ClassHitDie(ctx, c.Class)
		if err != nil {
			slog.DebugContext(ctx, "No SRD hit die for class",
				"class", c.Class,
				"error", err.Error())
		} else if die > 0 {
			hitDie = die
		}
	}

	hp := hitDie + engine.AbilityModifier(c.AbilityScores.Constitution)
	if hp < 1 {
		hp = 1
	}
	return hp
}

func applyFallback(c *entities.Character) {
	c.AbilityScores = entities.AbilityScores{
		Strength:     FallbackAbilityScore,
		Dexterity:    FallbackAbilityScore,
		Constitution: FallbackAbilityScore,
		Intelligence: FallbackAbilityScore,
		Wisdom:       FallbackAbilityScore,
		Charisma:     FallbackAbilityScore,
	}
	c.HitPoints = FallbackHitPoints
	c.MaxHitPoints = FallbackHitPoints
	c.ArmorClass = FallbackArmorClass

	c.Skills = make(entities.Skills, len(FallbackSkills))
	for _, s := range FallbackSkills {
		c.Skills[s] = 0
	}
	c.Equipment = append(entities.ItemList{}, FallbackEquipment...)
	c.Inventory = append(entities.ItemList{}, FallbackInventory...)
	c.Conditions = []string{}
}

func fallbackWelcome(name string) string {
	return fmt.Sprintf("Welcome, %s! A new adventurer joins the fray. May your journey be filled with glory and treasure!", name)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
