package pendingroll_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/dungeon-master/internal/redis"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

const testSessionID = "ses_1"

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redisclient.Client
	mr      *miniredis.Miniredis
	cleanup func()
	clock   *clock.Fixed
	repo    pendingroll.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedis(s.T())
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	repo, err := pendingroll.NewRedisRepository(&pendingroll.Config{
		Client: s.client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func attackSet() *pendingroll.PendingRollSet {
	return &pendingroll.PendingRollSet{
		SessionID:   testSessionID,
		CharacterID: "chr_1",
		Rolls: []pendingroll.PendingRoll{
			{Expression: "d20", Reason: "Melee Attack"},
			{Expression: "1d8", Reason: "Damage"},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := pendingroll.NewRedisRepository(nil)
	s.Error(err)

	_, err = pendingroll.NewRedisRepository(&pendingroll.Config{Clock: s.clock})
	s.Error(err)
	s.Contains(err.Error(), "redis client is required")
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	out, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), out.Set.CreatedAt)
	s.Equal(s.clock.Now().Add(pendingroll.DefaultTTL), out.Set.ExpiresAt)

	s.True(s.mr.Exists("pending_roll:" + testSessionID))
	s.Equal(pendingroll.DefaultTTL, s.mr.TTL("pending_roll:"+testSessionID))

	got, err := s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Len(got.Set.Rolls, 2)
	s.Equal("chr_1", got.Set.CharacterID)
	s.Equal(2, got.Set.Outstanding())
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, pendingroll.CreateInput{Set: &pendingroll.PendingRollSet{}})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "session ID cannot be empty")
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: "nope"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestKeyExpiry() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet(), TTL: time.Minute})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: testSessionID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestStoredExpiryIsAuthoritative() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet(), TTL: time.Minute})
	s.Require().NoError(err)

	// the key is still alive in Redis but the set's own deadline has passed
	s.clock.Advance(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: testSessionID})
	s.True(errors.IsNotFound(err))
	s.Contains(err.Error(), "expired")
	s.False(s.mr.Exists("pending_roll:" + testSessionID))
}

func resolve(expression, reason string, result int) pendingroll.UpdateFunc {
	return func(set *pendingroll.PendingRollSet) (bool, error) {
		idx := set.Match(expression, reason)
		if idx < 0 {
			return false, nil
		}
		set.Rolls[idx].Result = &result
		return true, nil
	}
}

func (s *RedisRepositoryTestSuite) TestUpdateKeepsRemainingTTL() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Minute)

	out, err := s.repo.Update(s.ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn:        resolve("d20", "Melee Attack", 17),
	})
	s.Require().NoError(err)
	s.True(out.Updated)

	s.Equal(10*time.Minute, s.mr.TTL("pending_roll:"+testSessionID))

	got, err := s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Require().NotNil(got.Set.Rolls[0].Result)
	s.Equal(17, *got.Set.Rolls[0].Result)
	s.Equal(1, got.Set.Outstanding())
}

func (s *RedisRepositoryTestSuite) TestUpdateUnchangedSkipsWrite() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)

	out, err := s.repo.Update(s.ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn:        resolve("d20", "Perception Check", 12),
	})
	s.Require().NoError(err)
	s.False(out.Updated)
	s.Equal(2, out.Set.Outstanding())
}

func (s *RedisRepositoryTestSuite) TestUpdateRetriesAfterConcurrentWrite() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)

	calls := 0
	out, err := s.repo.Update(s.ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn: func(set *pendingroll.PendingRollSet) (bool, error) {
			calls++
			if calls == 1 {
				// another request files the damage roll between our read and write
				other := *set
				other.Rolls = append([]pendingroll.PendingRoll(nil), set.Rolls...)
				damage := 6
				other.Rolls[1].Result = &damage
				data, err := json.Marshal(&other)
				s.Require().NoError(err)
				s.Require().NoError(s.client.Set(s.ctx, "pending_roll:"+testSessionID, data, time.Minute).Err())
			}
			return resolve("d20", "Melee Attack", 17)(set)
		},
	})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.True(out.Set.Complete())

	got, err := s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.True(got.Set.Complete())
	s.Equal(17, *got.Set.Rolls[0].Result)
	s.Equal(6, *got.Set.Rolls[1].Result)
}

func (s *RedisRepositoryTestSuite) TestUpdateFuncError() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)

	_, err = s.repo.Update(s.ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn: func(*pendingroll.PendingRollSet) (bool, error) {
			return false, errors.InvalidArgument("bad result")
		},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateExpiredSet() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet(), TTL: time.Minute})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)

	_, err = s.repo.Update(s.ctx, pendingroll.UpdateInput{
		SessionID: testSessionID,
		Fn:        resolve("1d8", "Damage", 4),
	})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateValidation() {
	_, err := s.repo.Update(s.ctx, pendingroll.UpdateInput{SessionID: testSessionID})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Update(s.ctx, pendingroll.UpdateInput{Fn: resolve("1d8", "Damage", 4)})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, pendingroll.DeleteInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Equal(2, out.RollsDeleted)

	out, err = s.repo.Delete(s.ctx, pendingroll.DeleteInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Equal(0, out.RollsDeleted)
}

func (s *RedisRepositoryTestSuite) TestClaimRequest() {
	input := pendingroll.ClaimRequestInput{SessionID: testSessionID, RequestID: "req-1"}

	first, err := s.repo.ClaimRequest(s.ctx, input)
	s.Require().NoError(err)
	s.True(first.Claimed)

	second, err := s.repo.ClaimRequest(s.ctx, input)
	s.Require().NoError(err)
	s.False(second.Claimed)

	other, err := s.repo.ClaimRequest(s.ctx, pendingroll.ClaimRequestInput{SessionID: "ses_2", RequestID: "req-1"})
	s.Require().NoError(err)
	s.True(other.Claimed)

	s.mr.FastForward(pendingroll.DefaultTTL + time.Second)

	again, err := s.repo.ClaimRequest(s.ctx, input)
	s.Require().NoError(err)
	s.True(again.Claimed)
}

func (s *RedisRepositoryTestSuite) TestReleaseRequest() {
	input := pendingroll.ClaimRequestInput{SessionID: testSessionID, RequestID: "req-1"}

	first, err := s.repo.ClaimRequest(s.ctx, input)
	s.Require().NoError(err)
	s.True(first.Claimed)

	s.Require().NoError(s.repo.ReleaseRequest(s.ctx, pendingroll.ReleaseRequestInput{
		SessionID: testSessionID,
		RequestID: "req-1",
	}))

	again, err := s.repo.ClaimRequest(s.ctx, input)
	s.Require().NoError(err)
	s.True(again.Claimed)

	// releasing an unknown id is a no-op
	s.NoError(s.repo.ReleaseRequest(s.ctx, pendingroll.ReleaseRequestInput{SessionID: testSessionID, RequestID: "req-2"}))
}

func (s *RedisRepositoryTestSuite) TestClaimRequestValidation() {
	_, err := s.repo.ClaimRequest(s.ctx, pendingroll.ClaimRequestInput{SessionID: testSessionID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestStoreFailure() {
	s.mr.SetError("READONLY")
	defer s.mr.SetError("")

	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Set: attackSet()})
	s.Require().Error(err)
	s.True(errors.IsStore(err))
}
