package external

// EquipmentData is the SRD view of one equipment item
type EquipmentData struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	EquipmentType       string          `json:"equipment_type"`
	Category            string          `json:"category,omitempty"`
	Weight              float32         `json:"weight,omitempty"`
	Cost                *CostData       `json:"cost,omitempty"`
	WeaponCategory      string          `json:"weapon_category,omitempty"`
	WeaponRange         string          `json:"weapon_range,omitempty"`
	Damage              *DamageData     `json:"damage,omitempty"`
	Properties          []string        `json:"properties,omitempty"`
	ArmorCategory       string          `json:"armor_category,omitempty"`
	ArmorClass          *ArmorClassData `json:"armor_class,omitempty"`
	StrengthMinimum     int             `json:"str_minimum,omitempty"`
	StealthDisadvantage bool            `json:"stealth_disadvantage,omitempty"`
}

// CostData is a price in one coin unit
type CostData struct {
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// DamageData is a weapon's damage roll
type DamageData struct {
	DamageDice string `json:"damage_dice"`
	DamageType string `json:"damage_type"`
}

// ArmorClassData is the base armor class granted by armor
type ArmorClassData struct {
	Base     int  `json:"base"`
	DexBonus bool `json:"dex_bonus"`
}

// ClassData is the SRD view of a character class
type ClassData struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	HitDie       int      `json:"hit_die"`
	HitDice      string   `json:"hit_dice"`
	SavingThrows []string `json:"saving_throws,omitempty"`
}
