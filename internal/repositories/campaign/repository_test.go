package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/repositories/campaign"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(clock.Clock) (campaign.Repository, func())

	ctx     context.Context
	clock   *clock.Fixed
	repo    campaign.Repository
	cleanup func()
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (campaign.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := campaign.NewRedis(&campaign.RedisConfig{Client: client, Clock: c})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}

func TestSQLRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (campaign.Repository, func()) {
			db, cleanup := testutils.CreateTestDB(t)
			repo, err := campaign.NewSQL(&campaign.SQLConfig{DB: db, Clock: c})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.repo, s.cleanup = s.newRepo(s.clock)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func testCampaign(id, userID string) *entities.Campaign {
	return &entities.Campaign{
		ID:     id,
		UserID: userID,
		Title:  "The Sunless Citadel",
		Status: entities.CampaignStatusActive,
	}
}

func (s *RepositoryTestSuite) TestLifecycle() {
	_, err := s.repo.Create(s.ctx, campaign.CreateInput{Campaign: testCampaign("cmp_1", "user_1")})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, campaign.CreateInput{Campaign: testCampaign("cmp_1", "user_1")})
	s.True(errors.IsAlreadyExists(err))

	s.clock.Advance(time.Hour)
	updated := testCampaign("cmp_1", "user_1")
	updated.Status = entities.CampaignStatusPaused
	out, err := s.repo.Update(s.ctx, campaign.UpdateInput{Campaign: updated})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), out.Campaign.UpdatedAt)

	got, err := s.repo.Get(s.ctx, campaign.GetInput{ID: "cmp_1"})
	s.Require().NoError(err)
	s.Equal(entities.CampaignStatusPaused, got.Campaign.Status)
	s.True(got.Campaign.CreatedAt.Before(got.Campaign.UpdatedAt))

	_, err = s.repo.Delete(s.ctx, campaign.DeleteInput{ID: "cmp_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, campaign.GetInput{ID: "cmp_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, campaign.DeleteInput{ID: "cmp_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, campaign.UpdateInput{Campaign: testCampaign("nope", "user_1")})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListByUserID() {
	for _, id := range []string{"cmp_1", "cmp_2"} {
		_, err := s.repo.Create(s.ctx, campaign.CreateInput{Campaign: testCampaign(id, "user_1")})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}
	_, err := s.repo.Create(s.ctx, campaign.CreateInput{Campaign: testCampaign("cmp_3", "user_2")})
	s.Require().NoError(err)

	out, err := s.repo.ListByUserID(s.ctx, campaign.ListByUserIDInput{UserID: "user_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Campaigns, 2)
	s.Equal("cmp_1", out.Campaigns[0].ID)
	s.Equal("cmp_2", out.Campaigns[1].ID)

	empty, err := s.repo.ListByUserID(s.ctx, campaign.ListByUserIDInput{UserID: "user_9"})
	s.Require().NoError(err)
	s.Empty(empty.Campaigns)
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Create(s.ctx, campaign.CreateInput{Campaign: &entities.Campaign{ID: "cmp_1"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, campaign.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}
