package engine

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// BuildCombatStats derives combat stats from a character and an already computed speed
func BuildCombatStats(c *entities.Character, speed int) CombatStats {
	proficiency := ProficiencyBonus(c.Level)
	return CombatStats{
		Initiative:       Initiative(AbilityModifier(c.AbilityScores.Dexterity)),
		AttackBonus:      AttackBonus(c.AbilityScores, c.Class, proficiency),
		ProficiencyBonus: proficiency,
		ArmorClass:       c.ArmorClass,
		Speed:            speed,
		HP: HitPoints{
			Current: c.HitPoints,
			Max:     c.MaxHitPoints,
		},
	}
}

// FormatCombatStats renders stats as the block shown to players and the narrator
func FormatCombatStats(s CombatStats) string {
	return fmt.Sprintf("Combat Stats:\nInitiative: %+d\nAttack Bonus: Melee %+d, Ranged %+d, Spell %+d\nAC: %d\nSpeed: %d feet\nHP: %d/%d",
		s.Initiative,
		s.AttackBonus.Melee, s.AttackBonus.Ranged, s.AttackBonus.Spell,
		s.ArmorClass,
		s.Speed,
		s.HP.Current, s.HP.Max,
	)
}
