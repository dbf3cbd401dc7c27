package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(clock.Clock) (character.Repository, func())

	ctx     context.Context
	clock   *clock.Fixed
	repo    character.Repository
	cleanup func()
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (character.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := character.NewRedis(&character.RedisConfig{Client: client, Clock: c})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}

func TestSQLRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (character.Repository, func()) {
			db, cleanup := testutils.CreateTestDB(t)
			repo, err := character.NewSQL(&character.SQLConfig{DB: db, Clock: c})
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

func testCharacter(id string) *entities.Character {
	return &entities.Character{
		ID:            id,
		UserID:        "user_1",
		CampaignID:    "cmp_1",
		Name:          "Thorin",
		Class:         "Fighter",
		Level:         1,
		HitPoints:     12,
		MaxHitPoints:  12,
		ArmorClass:    16,
		AbilityScores: entities.DefaultAbilityScores(),
		Inventory:     entities.ItemList{"Torch", "Sword"},
	}
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.Require().NoError(err)
	s.Equal(int64(1), out.Character.Version)
	s.Equal(s.clock.Now(), out.Character.CreatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "chr_1"})
	s.Require().NoError(err)
	s.Equal("Thorin", got.Character.Name)
	s.Equal(entities.ItemList{"Torch", "Sword"}, got.Character.Inventory)
	s.Equal(int64(1), got.Character.Version)
	s.True(got.Character.CreatedAt.Equal(s.clock.Now()))
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.True(errors.IsAlreadyExists(err), "got %v", err)
}

func (s *RepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	c := testCharacter("chr_1")
	c.CampaignID = ""
	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: c})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUpdateIncrementsVersion() {
	created, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	next := created.Character.Clone()
	next.HitPoints = 9

	out, err := s.repo.Update(s.ctx, character.UpdateInput{Character: next})
	s.Require().NoError(err)
	s.Equal(int64(2), out.Character.Version)
	s.Equal(s.clock.Now(), out.Character.UpdatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "chr_1"})
	s.Require().NoError(err)
	s.Equal(9, got.Character.HitPoints)
	s.Equal(int64(2), got.Character.Version)
	s.True(got.Character.CreatedAt.Equal(created.Character.CreatedAt))
}

func (s *RepositoryTestSuite) TestStaleUpdateAborts() {
	created, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.Require().NoError(err)

	first := created.Character.Clone()
	first.ExperiencePoints = 50
	second := created.Character.Clone()
	second.ExperiencePoints = 75

	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: first})
	s.Require().NoError(err)

	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: second})
	s.Require().Error(err)
	s.True(errors.IsAborted(err), "got %v", err)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "chr_1"})
	s.Require().NoError(err)
	s.Equal(50, got.Character.ExperiencePoints)
}

func (s *RepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: testCharacter("ghost")})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter("chr_1")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "chr_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: "chr_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "chr_1"})
	s.True(errors.IsNotFound(err))

	list, err := s.repo.ListByCampaignID(s.ctx, character.ListByCampaignIDInput{CampaignID: "cmp_1"})
	s.Require().NoError(err)
	s.Empty(list.Characters)
}

func (s *RepositoryTestSuite) TestListing() {
	for _, id := range []string{"chr_1", "chr_2"} {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: testCharacter(id)})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}
	other := testCharacter("chr_3")
	other.CampaignID = "cmp_2"
	other.UserID = "user_2"
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: other})
	s.Require().NoError(err)

	byCampaign, err := s.repo.ListByCampaignID(s.ctx, character.ListByCampaignIDInput{CampaignID: "cmp_1"})
	s.Require().NoError(err)
	s.Require().Len(byCampaign.Characters, 2)
	s.Equal("chr_1", byCampaign.Characters[0].ID)
	s.Equal("chr_2", byCampaign.Characters[1].ID)

	byUser, err := s.repo.ListByUserID(s.ctx, character.ListByUserIDInput{UserID: "user_2"})
	s.Require().NoError(err)
	s.Require().Len(byUser.Characters, 1)
	s.Equal("chr_3", byUser.Characters[0].ID)

	_, err = s.repo.ListByUserID(s.ctx, character.ListByUserIDInput{})
	s.True(errors.IsInvalidArgument(err))
}
