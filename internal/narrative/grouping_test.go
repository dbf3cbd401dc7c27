package narrative_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/narrative"
)

func TestKeywordClassifier(t *testing.T) {
	c := narrative.NewKeywordClassifier()

	testCases := []struct {
		name    string
		reasons []string
		related bool
	}{
		{"attack and damage", []string{"Melee Attack", "Damage"}, true},
		{"single roll", []string{"Attack"}, false},
		{"mixed", []string{"Attack", "Perception Check"}, false},
		{"initiative pair", []string{"Initiative", "INITIATIVE"}, true},
		{"none", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.related, c.Related(tc.reasons))
		})
	}
}

func TestExprClassifier(t *testing.T) {
	c, err := narrative.NewExprClassifier(`count > 1 && all(reasons, {# matches "(?i)attack|damage"})`)
	require.NoError(t, err)

	assert.True(t, c.Related([]string{"Attack", "Damage"}))
	assert.False(t, c.Related([]string{"Attack"}))
	assert.False(t, c.Related([]string{"Attack", "Stealth Check"}))
}

func TestNewClassifier(t *testing.T) {
	c, err := narrative.NewClassifier("  ")
	require.NoError(t, err)
	assert.IsType(t, &narrative.KeywordClassifier{}, c)

	_, err = narrative.NewClassifier("count +")
	assert.Error(t, err)

	_, err = narrative.NewClassifier(`count`)
	assert.Error(t, err, "non-boolean expressions are rejected")
}

func TestGroupRolls(t *testing.T) {
	classifier := narrative.NewKeywordClassifier()

	grouping := narrative.GroupRolls(narrative.Scan("Swing! [DICE:d20:Attack] [DICE:1d8:Damage]"), classifier)
	assert.Len(t, grouping.Related, 2)
	assert.Empty(t, grouping.Independent)

	grouping = narrative.GroupRolls(narrative.Scan("[DICE:d20:Perception Check] [DICE:d20:Stealth Check]"), classifier)
	assert.Empty(t, grouping.Related)
	assert.Len(t, grouping.Independent, 2)

	grouping = narrative.GroupRolls(narrative.Scan("Nothing to roll."), classifier)
	assert.Empty(t, grouping.Related)
	assert.Empty(t, grouping.Independent)
}
