// Package idgen provides ID generation for stored entities
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/dungeon-master/internal/pkg/idgen Generator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// Generators holds one generator per entity kind
type Generators struct {
	Campaign  Generator
	Character Generator
	Session   Generator
	Message   Generator
}

// NewUUIDGenerators returns prefixed UUID generators for every entity kind
func NewUUIDGenerators() Generators {
	return Generators{
		Campaign:  NewUUID("cmp"),
		Character: NewUUID("chr"),
		Session:   NewUUID("ses"),
		Message:   NewUUID("msg"),
	}
}

// NewSequentialGenerators returns deterministic generators for tests
func NewSequentialGenerators() Generators {
	return Generators{
		Campaign:  NewSequential("cmp"),
		Character: NewSequential("chr"),
		Session:   NewSequential("ses"),
		Message:   NewSequential("msg"),
	}
}
