package character

// Generation defaults
const (
	DefaultClass         = "Adventurer"
	DefaultRace          = "Human"
	DefaultCampaignTitle = "Adventure"

	generationTemperature = 0.8
	generationMaxTokens   = 1000
)

// Fallback stats for a generated character whose narrator response could not be used
const (
	FallbackAbilityScore = 12
	FallbackHitPoints    = 8
	FallbackArmorClass   = 10
)

// Fallback starting gear
var (
	FallbackSkills    = []string{"Athletics"}
	FallbackEquipment = []string{"Simple weapon", "Backpack"}
	FallbackInventory = []string{"Rations (1 day)", "Waterskin"}
)

// Update metadata keys on character_update messages
const (
	MetaType      = "type"
	MetaUpdates   = "updates"
	MetaCharacter = "character_id"
	MetaChanges   = "changes"
)
