// Package entities provides the core data structures for dungeon-master.
package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypeCharacter is the core.Entity type reported by Character
const EntityTypeCharacter = "character"

// Ability keys as they appear in stored and prompted ability score maps
const (
	AbilityStrength     = "str"
	AbilityDexterity    = "dex"
	AbilityConstitution = "con"
	AbilityIntelligence = "int"
	AbilityWisdom       = "wis"
	AbilityCharisma     = "cha"

	MinAbilityScore     = 1
	MaxAbilityScore     = 20
	DefaultAbilityScore = 10
)

// Abilities lists the six ability keys in sheet order
var Abilities = []string{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

// Character is one player's in-fiction avatar.
// NOTE: Character is mutated only through the reducer; handlers never write
// individual stat fields except through the explicit edit endpoint.
type Character struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id,omitempty"`
	CampaignID       string        `json:"campaign_id"`
	Name             string        `json:"name"`
	Class            string        `json:"class,omitempty"`
	Level            int           `json:"level"`
	Race             string        `json:"race,omitempty"`
	Background       string        `json:"background,omitempty"`
	ExperiencePoints int           `json:"experience_points"`
	HitPoints        int           `json:"hit_points"`
	MaxHitPoints     int           `json:"max_hit_points"`
	ArmorClass       int           `json:"armor_class"`
	AbilityScores    AbilityScores `json:"ability_scores"`
	Skills           Skills        `json:"skills,omitempty"`
	Spells           ItemList      `json:"spells,omitempty"`
	Equipment        ItemList      `json:"equipment,omitempty"`
	Inventory        ItemList      `json:"inventory,omitempty"`
	Conditions       []string      `json:"conditions,omitempty"`

	// Version increments on every successful write and backs optimistic concurrency
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

var _ core.Entity = (*Character)(nil)

// Clone returns a deep copy of the character
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Skills = c.Skills.clone()
	out.Spells = c.Spells.Clone()
	out.Equipment = c.Equipment.Clone()
	out.Inventory = c.Inventory.Clone()
	if c.Conditions != nil {
		out.Conditions = append([]string{}, c.Conditions...)
	}
	return &out
}

// HasCondition reports whether the named condition is active (case-insensitive)
func (c *Character) HasCondition(name string) bool {
	for _, cond := range c.Conditions {
		if strings.EqualFold(cond, name) {
			return true
		}
	}
	return false
}

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"str"`
	Dexterity    int `json:"dex"`
	Constitution int `json:"con"`
	Intelligence int `json:"int"`
	Wisdom       int `json:"wis"`
	Charisma     int `json:"cha"`
}

// DefaultAbilityScores returns all scores at 10
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength:     DefaultAbilityScore,
		Dexterity:    DefaultAbilityScore,
		Constitution: DefaultAbilityScore,
		Intelligence: DefaultAbilityScore,
		Wisdom:       DefaultAbilityScore,
		Charisma:     DefaultAbilityScore,
	}
}

// Get returns the score for an ability key ("str" or "strength")
func (a AbilityScores) Get(ability string) int {
	switch normalizeAbility(ability) {
	case AbilityStrength:
		return a.Strength
	case AbilityDexterity:
		return a.Dexterity
	case AbilityConstitution:
		return a.Constitution
	case AbilityIntelligence:
		return a.Intelligence
	case AbilityWisdom:
		return a.Wisdom
	case AbilityCharisma:
		return a.Charisma
	default:
		return DefaultAbilityScore
	}
}

// Clamp bounds every score to 1-20
func (a AbilityScores) Clamp() AbilityScores {
	return AbilityScores{
		Strength:     clampScore(a.Strength),
		Dexterity:    clampScore(a.Dexterity),
		Constitution: clampScore(a.Constitution),
		Intelligence: clampScore(a.Intelligence),
		Wisdom:       clampScore(a.Wisdom),
		Charisma:     clampScore(a.Charisma),
	}
}

// UnmarshalJSON accepts short (str) and long (strength) keys; missing scores default to 10
func (a *AbilityScores) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	scores := DefaultAbilityScores()
	for key, value := range raw {
		switch normalizeAbility(key) {
		case AbilityStrength:
			scores.Strength = value
		case AbilityDexterity:
			scores.Dexterity = value
		case AbilityConstitution:
			scores.Constitution = value
		case AbilityIntelligence:
			scores.Intelligence = value
		case AbilityWisdom:
			scores.Wisdom = value
		case AbilityCharisma:
			scores.Charisma = value
		}
	}
	*a = scores
	return nil
}

func normalizeAbility(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if len(key) > 3 {
		switch key {
		case "strength":
			return AbilityStrength
		case "dexterity":
			return AbilityDexterity
		case "constitution":
			return AbilityConstitution
		case "intelligence":
			return AbilityIntelligence
		case "wisdom":
			return AbilityWisdom
		case "charisma":
			return AbilityCharisma
		}
	}
	return key
}

func clampScore(score int) int {
	if score < MinAbilityScore {
		return MinAbilityScore
	}
	if score > MaxAbilityScore {
		return MaxAbilityScore
	}
	return score
}

// Skills maps a skill name to its bonus
type Skills map[string]int

// UnmarshalJSON accepts a list of names, a name->bonus object or a name->bool object
func (s *Skills) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		if names == nil {
			*s = nil
			return nil
		}
		out := make(Skills, len(names))
		for _, name := range names {
			out[name] = 0
		}
		*s = out
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}

	out := make(Skills, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case float64:
			out[name] = int(v)
		case bool:
			if v {
				out[name] = 0
			}
		default:
			out[name] = 0
		}
	}
	*s = out
	return nil
}

// Names returns the skill names
func (s Skills) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}

func (s Skills) clone() Skills {
	if s == nil {
		return nil
	}
	out := make(Skills, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
