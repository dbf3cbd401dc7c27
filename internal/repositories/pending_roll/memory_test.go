package pendingroll_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{Clock: clk})

	created, err := repo.Create(ctx, pendingroll.CreateInput{Set: attackSet(), TTL: time.Minute})
	require.NoError(t, err)

	// callers get copies
	created.Set.Rolls[0].Reason = "changed"
	got, err := repo.Get(ctx, pendingroll.GetInput{SessionID: testSessionID})
	require.NoError(t, err)
	assert.Equal(t, "Melee Attack", got.Set.Rolls[0].Reason)

	updated, err := repo.Update(ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn:        resolve("1d8", "Damage", 4),
	})
	require.NoError(t, err)
	assert.True(t, updated.Updated)

	// the returned set is a copy too
	updated.Set.Rolls[0].Reason = "changed"

	got, err = repo.Get(ctx, pendingroll.GetInput{SessionID: testSessionID})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Set.Outstanding())
	assert.Equal(t, "Melee Attack", got.Set.Rolls[0].Reason)

	clk.Advance(2 * time.Minute)
	_, err = repo.Get(ctx, pendingroll.GetInput{SessionID: testSessionID})
	assert.True(t, errors.IsNotFound(err))

	out, err := repo.Delete(ctx, pendingroll.DeleteInput{SessionID: testSessionID})
	require.NoError(t, err)
	assert.Equal(t, 0, out.RollsDeleted)
}

func TestMemoryRepository_ClaimRequest(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{Clock: clk})

	input := pendingroll.ClaimRequestInput{SessionID: testSessionID, RequestID: "req-1", TTL: time.Minute}

	first, err := repo.ClaimRequest(ctx, input)
	require.NoError(t, err)
	assert.True(t, first.Claimed)

	second, err := repo.ClaimRequest(ctx, input)
	require.NoError(t, err)
	assert.False(t, second.Claimed)

	clk.Advance(2 * time.Minute)
	third, err := repo.ClaimRequest(ctx, input)
	require.NoError(t, err)
	assert.True(t, third.Claimed)
}

func TestMemoryRepository_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{Clock: clk})

	set := &pendingroll.PendingRollSet{SessionID: testSessionID}
	for i := 0; i < 16; i++ {
		set.Rolls = append(set.Rolls, pendingroll.PendingRoll{Expression: "1d6", Reason: fmt.Sprintf("Damage %d", i)})
	}
	_, err := repo.Create(ctx, pendingroll.CreateInput{Set: set})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, pendingroll.UpdateInput{
				SessionID: testSessionID,
				Fn:        resolve("1d6", fmt.Sprintf("Damage %d", i), i+1),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, pendingroll.GetInput{SessionID: testSessionID})
	require.NoError(t, err)
	assert.True(t, got.Set.Complete())
	for i, r := range got.Set.Rolls {
		assert.Equal(t, i+1, *r.Result)
	}
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo := pendingroll.NewMemoryRepository(nil)

	_, err := repo.Update(context.Background(), pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn:        resolve("1d8", "Damage", 4),
	})
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryRepository_ReleaseRequest(t *testing.T) {
	ctx := context.Background()
	repo := pendingroll.NewMemoryRepository(nil)
	input := pendingroll.ClaimRequestInput{SessionID: testSessionID, RequestID: "req-1"}

	first, err := repo.ClaimRequest(ctx, input)
	require.NoError(t, err)
	assert.True(t, first.Claimed)

	require.NoError(t, repo.ReleaseRequest(ctx, pendingroll.ReleaseRequestInput{SessionID: testSessionID, RequestID: "req-1"}))

	again, err := repo.ClaimRequest(ctx, input)
	require.NoError(t, err)
	assert.True(t, again.Claimed)
}

func TestPendingRollSet_Match(t *testing.T) {
	r := 12
	set := &pendingroll.PendingRollSet{
		Rolls: []pendingroll.PendingRoll{
			{Expression: "d20", Reason: "Melee Attack", Result: &r},
			{Expression: "d20", Reason: "Melee Attack"},
			{Expression: "1d8", Reason: "Damage"},
			{Expression: "2d6", Reason: "Damage"},
		},
	}

	assert.Equal(t, 1, set.Match("d20", "melee attack"))
	assert.Equal(t, 3, set.Match("2d6", "Damage"))
	assert.Equal(t, 2, set.Match("d4", "Damage"))
	assert.Equal(t, -1, set.Match("d20", "Initiative"))
	assert.Equal(t, 0, set.MatchResolved("d20", "Melee Attack"))
	assert.Equal(t, -1, set.MatchResolved("1d8", "Damage"))
	assert.False(t, set.Complete())
	assert.False(t, (&pendingroll.PendingRollSet{}).Complete())
}
