package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/narrative"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		scanFile, scanExpr, rollReason = "", "", ""
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestScan_GroupsRelatedRolls(t *testing.T) {
	text := `The orc lunges. [DICE:d20:Melee Attack] [DICE:1d8:Damage]
characterUpdates: {"hit_points": -3}`

	out := execute(t, "", "scan", text)

	var report scanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Grouping.Related, 2)
	assert.Empty(t, report.Grouping.Independent)
	require.NotNil(t, report.Mutation)
	require.NotNil(t, report.Mutation.HitPoints)
	assert.Equal(t, -3, *report.Mutation.HitPoints)
	assert.NotContains(t, report.Narrative, "characterUpdates")
}

func TestScan_ReadsStdin(t *testing.T) {
	out := execute(t, "You hear footsteps. [DICE:d20:Perception Check]", "scan")

	var report scanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Fragments, 2)
	assert.Equal(t, narrative.FragmentRoll, report.Fragments[1].Kind)
	assert.Nil(t, report.Mutation)
}

func TestRoll_WithDC(t *testing.T) {
	out := execute(t, "", "roll", "2d6", "--reason", "Athletics DC 2")

	assert.True(t, strings.HasPrefix(out, "2d6 = "), out)
	assert.Contains(t, out, "(Athletics)")
	assert.Contains(t, out, "vs DC 2: SUCCESS")
}
