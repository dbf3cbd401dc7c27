package tts

import (
	"regexp"
	"strings"
)

var (
	diceTokenPattern = regexp.MustCompile(`\[DICE:[^\]]+\]`)
	sentenceEnd      = regexp.MustCompile(`([.!?])\s+`)

	// delivery rules run in order; each inserts SSML breaks around a word class
	deliveryRules = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`(?i)\b(CRITICAL|DEADLY|DANGEROUS|MYSTERIOUS|ANCIENT|POWERFUL)\b`), `<break time="500ms"/>${1}<break time="300ms"/>`},
		{regexp.MustCompile(`(?i)\b(sword|shield|magic|spell|dragon|monster|treasure|gold|silver|platinum)\b`), `<break time="200ms"/>${1}`},
		{regexp.MustCompile(`(?i)\b(attack|defend|dodge|parry|strike|slash|thrust)\b`), `<break time="150ms"/>${1}`},
		{regexp.MustCompile(`(?i)(\d+)\s*(damage|points|feet|miles)`), `<break time="100ms"/>${1} ${2}`},
		{regexp.MustCompile(`(?i)\b(dark|shadow|light|bright|cold|hot|wet|dry|rough|smooth)\b`), `<break time="100ms"/>${1}`},
	}
)

// CleanText strips dice tokens and markdown emphasis so they are not read aloud
func CleanText(text string) string {
	text = diceTokenPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "`", "")
	return strings.TrimSpace(text)
}

// EnhanceDelivery adds dramatic pauses for narration
func EnhanceDelivery(text string) string {
	enhanced := sentenceEnd.ReplaceAllString(text, "${1}... ")
	for _, rule := range deliveryRules {
		enhanced = rule.pattern.ReplaceAllString(enhanced, rule.replacement)
	}
	return enhanced
}
