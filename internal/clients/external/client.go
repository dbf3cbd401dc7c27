// Package external is the location for the dnd5e-api client
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/dungeon-master/internal/clients/external Client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

var (
	// slugPattern matches characters that should be replaced in slugs
	slugPattern = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRun     = regexp.MustCompile(`-+`)

	// trailing "(2)" or "(50 feet)" style qualifiers on inventory entries
	qualifierPattern = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// generateSlug creates a URL-safe slug from a string
func generateSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return dashRun.ReplaceAllString(slug, "-")
}

// Client defines the SRD lookups the service needs
type Client interface {
	// GetEquipmentData fetches an equipment item by SRD key or display name
	GetEquipmentData(ctx context.Context, equipmentID string) (*EquipmentData, error)

	// GetClassData fetches a class by SRD key or display name
	GetClassData(ctx context.Context, classID string) (*ClassData, error)

	// ArmorCategory returns "light", "medium", "heavy" or "shield" for armor,
	// and "" for anything else
	ArmorCategory(ctx context.Context, itemName string) (string, error)

	// ClassHitDie returns the hit die size of a class, e.g. 10 for fighter
	ClassHitDie(ctx context.Context, className string) (int, error)
}

type client struct {
	dnd5eClient dnd5e.Interface
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return nil
}

// New creates a new external client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  httpClient,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create D&D 5e API client: %w", err)
	}

	// Wrap with caching for better performance
	return &client{
		dnd5eClient: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL),
	}, nil
}

func (c *client) GetEquipmentData(_ context.Context, equipmentID string) (*EquipmentData, error) {
	key := generateSlug(equipmentID)
	if key == "" {
		return nil, errors.InvalidArgument("equipment id is required")
	}

	slog.Debug("Calling D&D 5e API to get equipment", "equipment", equipmentID, "api", key)
	item, err := c.dnd5eClient.GetEquipment(key)
	if err != nil {
		return nil, errors.Providerf(err, "failed to get equipment %s (api: %s)", equipmentID, key)
	}

	data := convertEquipmentToEquipmentData(item)
	if data == nil {
		return nil, errors.NotFoundf("equipment %s not found", equipmentID)
	}
	return data, nil
}

func (c *client) GetClassData(_ context.Context, classID string) (*ClassData, error) {
	key := generateSlug(classID)
	if key == "" {
		return nil, errors.InvalidArgument("class id is required")
	}

	class, err := c.dnd5eClient.GetClass(key)
	if err != nil {
		return nil, errors.Providerf(err, "failed to get class %s (api: %s)", classID, key)
	}

	data := convertClassToClassData(class)
	if data == nil {
		return nil, errors.NotFoundf("class %s not found", classID)
	}
	return data, nil
}

func (c *client) ArmorCategory(ctx context.Context, itemName string) (string, error) {
	name := qualifierPattern.ReplaceAllString(itemName, "")
	data, err := c.GetEquipmentData(ctx, name)
	if err != nil {
		return "", err
	}

	if data.EquipmentType != "armor" {
		return "", nil
	}
	return strings.ToLower(data.ArmorCategory), nil
}

func (c *client) ClassHitDie(ctx context.Context, className string) (int, error) {
	data, err := c.GetClassData(ctx, className)
	if err != nil {
		return 0, err
	}
	return data.HitDie, nil
}

func convertClassToClassData(class *entities.Class) *ClassData {
	if class == nil {
		return nil
	}

	savingThrows := make([]string, len(class.SavingThrows))
	for i, st := range class.SavingThrows {
		savingThrows[i] = st.Name
	}

	return &ClassData{
		ID:           class.Key,
		Name:         class.Name,
		HitDie:       class.HitDie,
		HitDice:      fmt.Sprintf("1d%d", class.HitDie),
		SavingThrows: savingThrows,
	}
}

// convertEquipmentToEquipmentData converts dnd5e-api equipment to our internal format
func convertEquipmentToEquipmentData(equipment dnd5e.EquipmentInterface) *EquipmentData {
	if equipment == nil {
		return nil
	}

	equipmentData := &EquipmentData{
		EquipmentType: equipment.GetType(),
	}

	switch eq := equipment.(type) {
	case *entities.Weapon:
		equipmentData.ID = eq.Key
		equipmentData.Name = eq.Name
		equipmentData.WeaponCategory = eq.WeaponCategory
		equipmentData.WeaponRange = eq.WeaponRange
		equipmentData.Weight = eq.Weight
		equipmentData.Category = categoryKey(eq.EquipmentCategory)
		equipmentData.Cost = convertCost(eq.Cost)
		if eq.Damage != nil {
			equipmentData.Damage = &DamageData{DamageDice: eq.Damage.DamageDice}
			if eq.Damage.DamageType != nil {
				equipmentData.Damage.DamageType = eq.Damage.DamageType.Name
			}
		}
		for _, prop := range eq.Properties {
			equipmentData.Properties = append(equipmentData.Properties, prop.Name)
		}

	case *entities.Armor:
		equipmentData.ID = eq.Key
		equipmentData.Name = eq.Name
		equipmentData.ArmorCategory = eq.ArmorCategory
		equipmentData.Weight = eq.Weight
		equipmentData.StrengthMinimum = eq.StrMinimum
		equipmentData.StealthDisadvantage = eq.StealthDisadvantage
		equipmentData.Category = categoryKey(eq.EquipmentCategory)
		equipmentData.Cost = convertCost(eq.Cost)
		if eq.ArmorClass != nil {
			equipmentData.ArmorClass = &ArmorClassData{
				Base:     eq.ArmorClass.Base,
				DexBonus: eq.ArmorClass.DexBonus,
			}
		}

	case *entities.Equipment:
		equipmentData.ID = eq.Key
		equipmentData.Name = eq.Name
		equipmentData.Weight = eq.Weight
		equipmentData.Category = categoryKey(eq.EquipmentCategory)
		equipmentData.Cost = convertCost(eq.Cost)
	}

	return equipmentData
}

func categoryKey(ref *entities.ReferenceItem) string {
	if ref == nil {
		return ""
	}
	return ref.Key
}

func convertCost(cost *entities.Cost) *CostData {
	if cost == nil {
		return nil
	}
	return &CostData{Quantity: cost.Quantity, Unit: cost.Unit}
}
