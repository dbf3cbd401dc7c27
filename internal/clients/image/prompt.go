package image

import (
	"fmt"
	"strings"
)

// Model keys accepted by GenerateItemImage
const (
	ModelSDXL       = "sdxl"
	ModelMidjourney = "midjourney"
	ModelRealistic  = "realistic"
)

// Models maps model keys to Replicate "owner/name:version" references
var Models = map[string]string{
	ModelSDXL:       "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b",
	ModelMidjourney: "midjourney/diffusion:db21e45d3f7023abc2a46ee38a23973f6dce16bb082a930b0c49861f96d1e5bf",
	ModelRealistic:  "cjwbw/realistic-vision-v5:ac732df83cea7fff18b8472768c88ad041fa750ff7682a21affe81863cbe77e4",
}

var typePrompts = map[string]string{
	"weapon": "weapon, sharp, metallic, battle-worn, fantasy weapon design",
	"armor":  "armor, protective gear, metallic, fantasy armor design, medieval style",
	"potion": "potion bottle, magical liquid, glowing, fantasy potion, glass bottle",
	"scroll": "magical scroll, ancient parchment, glowing runes, fantasy spell scroll",
	"ring":   "magical ring, precious metal, gemstone, fantasy jewelry",
	"wand":   "magical wand, wooden staff, glowing tip, fantasy spellcasting tool",
	"book":   "ancient tome, leather bound, magical book, fantasy grimoire",
	"coin":   "gold coins, treasure, fantasy currency, metallic shine",
	"gem":    "precious gemstone, crystal, fantasy treasure, sparkling",
	"food":   "fantasy food, rations, medieval cuisine, hearty meal",
	"tool":   "fantasy tool, craftsmanship, medieval equipment, utility item",
}

const fallbackTypePrompt = "fantasy item, magical, detailed"

// ItemPrompt builds the generation prompt for an item of the given type
func ItemPrompt(itemName, itemType string) string {
	if itemType == "" {
		itemType = "item"
	}

	base := fmt.Sprintf("A detailed, high-quality D&D fantasy %s, %s, isolated on transparent background, "+
		"cinematic lighting, 4k resolution, professional photography style", itemType, itemName)

	typePrompt, ok := typePrompts[strings.ToLower(itemType)]
	if !ok {
		typePrompt = fallbackTypePrompt
	}
	return base + ", " + typePrompt
}

// ResolveModel accepts a model key or a full "owner/name:version" reference
// and returns the full reference and its version hash
func ResolveModel(model string) (string, string, bool) {
	if model == "" {
		model = ModelSDXL
	}
	if ref, ok := Models[strings.ToLower(model)]; ok {
		model = ref
	}

	_, version, ok := strings.Cut(model, ":")
	if !ok || version == "" {
		return model, "", false
	}
	return model, version, true
}
