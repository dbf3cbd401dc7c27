package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/engine"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

const promptIntro = `You are an expert Dungeon Master running a D&D 5e campaign. You create immersive, engaging adventures with rich storytelling, dynamic combat, and meaningful character development.`

const promptRules = `PARTY-BASED GAMEPLAY RULES:
- Create challenges that require specific character abilities or skills
- Some tasks can only be performed by characters with certain abilities (e.g., heavy lifting requires STR 13+, magic requires spellcasting ability)
- For general tasks, let the player choose which character attempts it
- Consider party composition when designing encounters and puzzles
- Use character-specific dialogue and reactions based on their class, race, and abilities

CHARACTER-SPECIFIC CHALLENGES:
- STR-based: Heavy lifting, breaking doors, climbing, swimming against currents
- DEX-based: Picking locks, sneaking, acrobatics, disarming traps
- CON-based: Endurance challenges, resisting poison, holding breath
- INT-based: Solving puzzles, deciphering ancient texts, understanding magic
- WIS-based: Reading people, tracking, survival, noticing hidden things
- CHA-based: Negotiation, intimidation, performance, deception

GAME RULES:
- Use D&D 5e rules and mechanics
- Create immersive, descriptive scenarios
- React to player actions and decisions
- Update character stats, inventory, and conditions based on story events
- Use [DICE:diceType:reason] format to request dice rolls (without showing DC)
- Include a characterUpdates JSON object for stat changes
- Use inventory_add and inventory_remove for inventory changes

DICE ROLLING WITH BONUSES:
- Request rolls using [DICE:diceType:reason] format
- d20 for all checks (attack, saving throws, skills, perception, investigation, insight)
- Other dice for damage, healing, or special effects
- DC is internal and never shown to player
- Show SUCCESS/FAILURE based on roll vs internal DC
- For perception-like skills, use spectrum: higher = more information
- Consider character abilities when setting DCs

BONUS CALCULATION:
- Ability Modifier = (Ability Score - 10) / 2, rounded down
- Skill Check = d20 + Ability Modifier + Proficiency Bonus (if proficient)
- Attack Roll = d20 + Ability Modifier + Proficiency Bonus + Weapon Bonus
- Saving Throw = d20 + Ability Modifier + Proficiency Bonus (if proficient)
- Initiative = d20 + DEX Modifier

INVENTORY MANAGEMENT RULES:
- Never give items for free without justification
- Items must be acquired through: combat loot, purchasing, finding, quest rewards, trading
- Use inventory_add for new items, inventory_remove for consumed/lost items
- Use inventory_edit to change a quantity, e.g. {"Gold Pouch (10)": "Gold Pouch (5)"}
- Existing items are never deleted when adding new ones

EQUIPMENT VALIDATION RULES:
- Check character's equipment/inventory before allowing actions
- Shield bash requires shield, two-weapon fighting requires two weapons
- Spellcasting requires components or focus
- Ranged attacks require ammunition
- Heavy armor requires Strength 13+

COMBAT EXAMPLES:
- [DICE:d20:Melee Attack] [DICE:1d8:Damage]
- [DICE:d20:Initiative]
- [DICE:d20:Saving Throw:Constitution]
- [DICE:d20:Perception Check]

OPTION-BASED CHALLENGES:
When presenting multiple options, describe what each option requires without rolling dice immediately.
Only request dice rolls AFTER the player has chosen an option and you need to resolve that specific choice.

MULTI-ROLL RESULTS:
Only use multi-roll sequences for related actions that happen together:
- Attack roll + damage roll (same action)
- Initiative rolls (all participants roll at once)
- Multiple attacks in one turn (same character)
Do NOT use multi-roll for separate options or choices.

CHARACTER UPDATES:
Include a characterUpdates JSON object for changes. hit_points is the change in hit points
(negative for damage, positive for healing), experience_points is the amount gained, armor_class
is the new value and conditions replaces the active conditions:
characterUpdates: {
  "hit_points": -5,
  "experience_points": 150,
  "inventory_add": ["Healing Potion"],
  "inventory_remove": ["Arrows"],
  "conditions": ["Poisoned"]
}

STORYTELLING:
- Create vivid, atmospheric descriptions
- React dynamically to player choices
- Balance combat, exploration, and social encounters
- Maintain campaign continuity and character development
- Create opportunities for each party member to shine
- Present options clearly before requesting rolls`

const promptOutro = `Respond as the Dungeon Master, continuing the adventure based on the current situation and any dice results provided. Consider the party composition and create opportunities for different characters to contribute based on their abilities.`

// tierHints describe how much a spectrum check reveals
var tierHints = map[string]string{
	dice.TierMinimal:       "reveal almost nothing",
	dice.TierBasic:         "reveal only the obvious",
	dice.TierModerate:      "reveal useful details",
	dice.TierDetailed:      "reveal detailed information",
	dice.TierComprehensive: "reveal nearly everything",
	dice.TierExceptional:   "reveal everything, including hidden secrets",
}

// bestSkills lists the party block's headline skill per ability
var bestSkills = []struct {
	skill   string
	ability string
}{
	{"Athletics", entities.AbilityStrength},
	{"Stealth", entities.AbilityDexterity},
	{"Perception", entities.AbilityWisdom},
	{"Persuasion", entities.AbilityCharisma},
	{"Investigation", entities.AbilityIntelligence},
}

// PromptInput is everything the narrator sees besides the triggering message
type PromptInput struct {
	Character *entities.Character
	// Party excludes the speaking character
	Party   []*entities.Character
	History []*entities.Message

	// DiceResult is a lone roll being forwarded
	DiceResult *dice.Outcome
	// MultiRoll is a completed set of related rolls
	MultiRoll []pendingroll.PendingRoll
}

// BuildSystemPrompt renders the narrator's system prompt
func BuildSystemPrompt(in *PromptInput) string {
	var b strings.Builder

	b.WriteString(promptIntro)
	b.WriteString("\n\nCURRENT SPEAKING CHARACTER:\n")
	if in.Character != nil {
		writeCharacter(&b, in.Character)
	} else {
		b.WriteString("No character data available\n")
	}

	if len(in.Party) > 0 {
		b.WriteString("\nFULL PARTY DETAILS:\n")
		for _, member := range in.Party {
			writePartyMember(&b, member)
		}
	}

	b.WriteString("\n")
	b.WriteString(promptRules)
	b.WriteString("\n\n")

	if in.DiceResult != nil {
		b.WriteString(FormatDiceResult(in.DiceResult))
		b.WriteString("\n")
	}
	if len(in.MultiRoll) > 0 {
		b.WriteString(FormatMultiRoll(in.MultiRoll))
		b.WriteString("\n")
	}

	b.WriteString("\nPrevious messages for context:\n")
	b.WriteString(FormatHistory(in.History))
	b.WriteString("\n\n")
	b.WriteString(promptOutro)

	return b.String()
}

// FormatDiceResult renders a lone roll, with its check result when known
func FormatDiceResult(o *dice.Outcome) string {
	line := fmt.Sprintf("DICE RESULT: %s (%s) = %d", o.Expression, o.Reason, o.Total)
	switch {
	case o.Success != nil:
		line += fmt.Sprintf(" vs DC %d: %s", *o.DC, successWord(*o.Success))
	case o.Tier != "":
		line += fmt.Sprintf(" [%s result: %s]", o.Tier, tierHints[o.Tier])
	}
	return line
}

type multiRollEntry struct {
	DiceType string `json:"diceType"`
	Reason   string `json:"reason"`
	Result   int    `json:"result"`
	Outcome  string `json:"outcome,omitempty"`
}

// FormatMultiRoll renders a completed set of related rolls
func FormatMultiRoll(rolls []pendingroll.PendingRoll) string {
	entries := make([]multiRollEntry, 0, len(rolls))
	for _, r := range rolls {
		if r.Result == nil {
			continue
		}
		entry := multiRollEntry{DiceType: r.Expression, Reason: r.Reason, Result: *r.Result}
		switch {
		case r.Success != nil:
			entry.Outcome = successWord(*r.Success)
		case r.Tier != "":
			entry.Outcome = r.Tier
		}
		entries = append(entries, entry)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		data = []byte("[]")
	}
	return "MULTI-ROLL RESULTS: " + string(data)
}

// FormatHistory renders prior messages as "role: content" lines
func FormatHistory(history []*entities.Message) string {
	if len(history) == 0 {
		return "No previous messages"
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func writeCharacter(b *strings.Builder, c *entities.Character) {
	fmt.Fprintf(b, "Name: %s\n", c.Name)
	fmt.Fprintf(b, "Class: %s\n", orUnknown(c.Class))
	fmt.Fprintf(b, "Level: %d\n", c.Level)
	fmt.Fprintf(b, "Race: %s\n", orUnknown(c.Race))
	fmt.Fprintf(b, "Experience Points: %d\n", c.ExperiencePoints)
	fmt.Fprintf(b, "Hit Points: %d/%d\n", c.HitPoints, c.MaxHitPoints)
	fmt.Fprintf(b, "Armor Class: %d\n", c.ArmorClass)
	b.WriteString("Ability Scores & Modifiers:\n")
	for _, ability := range entities.Abilities {
		score := c.AbilityScores.Get(ability)
		fmt.Fprintf(b, "  %s: %d (%s)\n", strings.ToUpper(ability), score, signed(engine.AbilityModifier(score)))
	}
	fmt.Fprintf(b, "Skills: %s\n", toJSON(c.Skills))
	fmt.Fprintf(b, "Spells: %s\n", toJSON(c.Spells))
	fmt.Fprintf(b, "Equipment: %s\n", toJSON(c.Equipment))
	b.WriteString("Inventory:\n")
	for _, line := range strings.Split(reducer.FormatInventory(c.Inventory), "\n") {
		fmt.Fprintf(b, "  %s\n", line)
	}
	fmt.Fprintf(b, "Conditions: %s\n", toJSON(c.Conditions))
}

func writePartyMember(b *strings.Builder, c *entities.Character) {
	fmt.Fprintf(b, "- %s (Level %d %s %s)\n", c.Name, c.Level, c.Race, c.Class)
	fmt.Fprintf(b, "  HP: %d/%d, AC: %d\n", c.HitPoints, c.MaxHitPoints, c.ArmorClass)
	fmt.Fprintf(b, "  XP: %d\n", c.ExperiencePoints)

	abilities := make([]string, 0, len(entities.Abilities))
	for _, ability := range entities.Abilities {
		score := c.AbilityScores.Get(ability)
		abilities = append(abilities, fmt.Sprintf("%s %d(%s)", strings.ToUpper(ability), score, signed(engine.AbilityModifier(score))))
	}
	fmt.Fprintf(b, "  Abilities: %s\n", strings.Join(abilities, ", "))
	fmt.Fprintf(b, "  Skills: %s\n", toJSON(c.Skills))
	fmt.Fprintf(b, "  Equipment: %s\n", toJSON(c.Equipment))
	fmt.Fprintf(b, "  Spells: %s\n", toJSON(c.Spells))

	best := make([]string, 0, len(bestSkills))
	for _, s := range bestSkills {
		best = append(best, fmt.Sprintf("%s(%s)", s.skill, signed(engine.AbilityModifier(c.AbilityScores.Get(s.ability)))))
	}
	fmt.Fprintf(b, "  Best Skills: %s\n", strings.Join(best, ", "))
}

func successWord(ok bool) string {
	if ok {
		return "SUCCESS"
	}
	return "FAILURE"
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return "[]"
	}
	return string(data)
}
