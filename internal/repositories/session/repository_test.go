package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(clock.Clock) (session.Repository, func())

	ctx     context.Context
	clock   *clock.Fixed
	repo    session.Repository
	cleanup func()
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (session.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := session.NewRedis(&session.RedisConfig{Client: client, Clock: c})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}

func TestSQLRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (session.Repository, func()) {
			db, cleanup := testutils.CreateTestDB(t)
			repo, err := session.NewSQL(&session.SQLConfig{DB: db, Clock: c})
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

func testSession(id, campaignID string) *entities.Session {
	return &entities.Session{
		ID:                id,
		CampaignID:        campaignID,
		PartyCharacterIDs: []string{"chr_1", "chr_2"},
		Title:             "Into the Citadel",
	}
}

func (s *RepositoryTestSuite) TestLifecycle() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: testSession("ses_1", "cmp_1")})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, session.CreateInput{Session: testSession("ses_1", "cmp_1")})
	s.True(errors.IsAlreadyExists(err))

	got, err := s.repo.Get(s.ctx, session.GetInput{ID: "ses_1"})
	s.Require().NoError(err)
	s.Equal([]string{"chr_1", "chr_2"}, got.Session.PartyCharacterIDs)

	got.Session.Title = "Deeper"
	_, err = s.repo.Update(s.ctx, session.UpdateInput{Session: got.Session})
	s.Require().NoError(err)

	got, err = s.repo.Get(s.ctx, session.GetInput{ID: "ses_1"})
	s.Require().NoError(err)
	s.Equal("Deeper", got.Session.Title)

	_, err = s.repo.Delete(s.ctx, session.DeleteInput{ID: "ses_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, session.GetInput{ID: "ses_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListByCampaignID() {
	for _, id := range []string{"ses_1", "ses_2"} {
		_, err := s.repo.Create(s.ctx, session.CreateInput{Session: testSession(id, "cmp_1")})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: testSession("ses_3", "cmp_2")})
	s.Require().NoError(err)

	out, err := s.repo.ListByCampaignID(s.ctx, session.ListByCampaignIDInput{CampaignID: "cmp_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 2)
	s.Equal("ses_1", out.Sessions[0].ID)
	s.Equal("ses_2", out.Sessions[1].ID)
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: &entities.Session{ID: "ses_1"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, session.DeleteInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}
