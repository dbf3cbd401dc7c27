package audit_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

func TestLoggerCountsPublishedEvents(t *testing.T) {
	bus := events.NewBus()
	logger := audit.NewLogger(bus)

	character := &entities.Character{ID: "chr_1", Name: "Mira"}
	ctx := context.Background()

	audit.Publish(ctx, bus, audit.EventCharacterUpdated, character, map[string]interface{}{
		audit.KeySummary: "Character updated: XP: +50",
		audit.KeyVersion: int64(2),
	})
	audit.Publish(ctx, bus, audit.EventCharacterUpdated, character, nil)
	audit.Publish(ctx, bus, audit.EventDiceRolled, nil, map[string]interface{}{
		audit.KeyExpression: "1d20",
	})

	assert.Equal(t, 2, logger.Count(audit.EventCharacterUpdated))
	assert.Equal(t, 1, logger.Count(audit.EventDiceRolled))
	assert.Equal(t, 0, logger.Count(audit.EventCharacterDeleted))

	require.NoError(t, logger.Close())
	audit.Publish(ctx, bus, audit.EventCharacterUpdated, character, nil)
	assert.Equal(t, 2, logger.Count(audit.EventCharacterUpdated))
}

func TestPublishWithoutBus(t *testing.T) {
	assert.NotPanics(t, func() {
		audit.Publish(context.Background(), nil, audit.EventCharacterCreated, &entities.Character{ID: "chr_1"}, nil)
	})
}
