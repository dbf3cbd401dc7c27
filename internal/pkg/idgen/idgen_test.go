package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
)

func TestSequential(t *testing.T) {
	g := idgen.NewSequential("msg")
	assert.Equal(t, "msg_1", g.Generate())
	assert.Equal(t, "msg_2", g.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}

func TestUUID(t *testing.T) {
	gens := idgen.NewUUIDGenerators()

	a := gens.Character.Generate()
	b := gens.Character.Generate()
	assert.True(t, strings.HasPrefix(a, "chr_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, idgen.NewUUID("").Generate(), 36)
}
