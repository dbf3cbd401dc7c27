package message_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(clock.Clock) (message.Repository, func())

	ctx     context.Context
	clock   *clock.Fixed
	repo    message.Repository
	cleanup func()
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (message.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := message.NewRedis(&message.RedisConfig{Client: client, Clock: c})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}

func TestSQLRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) (message.Repository, func()) {
			db, cleanup := testutils.CreateTestDB(t)
			repo, err := message.NewSQL(&message.SQLConfig{DB: db, Clock: c})
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

func (s *RepositoryTestSuite) appendN(sessionID string, n int) {
	for i := 1; i <= n; i++ {
		_, err := s.repo.Append(s.ctx, message.AppendInput{Message: &entities.Message{
			ID:        fmt.Sprintf("%s_msg_%d", sessionID, i),
			SessionID: sessionID,
			Role:      entities.RoleUser,
			Content:   fmt.Sprintf("line %d", i),
		}})
		s.Require().NoError(err)
	}
}

func (s *RepositoryTestSuite) TestAppendKeepsOrder() {
	s.appendN("ses_1", 3)
	s.appendN("ses_2", 1)

	out, err := s.repo.ListBySessionID(s.ctx, message.ListBySessionIDInput{SessionID: "ses_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Messages, 3)
	s.Equal("line 1", out.Messages[0].Content)
	s.Equal("line 3", out.Messages[2].Content)
	s.Equal(s.clock.Now(), out.Messages[0].CreatedAt.UTC())
}

func (s *RepositoryTestSuite) TestLimitReturnsMostRecent() {
	s.appendN("ses_1", 5)

	out, err := s.repo.ListBySessionID(s.ctx, message.ListBySessionIDInput{SessionID: "ses_1", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Messages, 2)
	s.Equal("line 4", out.Messages[0].Content)
	s.Equal("line 5", out.Messages[1].Content)
}

func (s *RepositoryTestSuite) TestMetadataRoundTrip() {
	_, err := s.repo.Append(s.ctx, message.AppendInput{Message: &entities.Message{
		ID:        "msg_1",
		SessionID: "ses_1",
		Role:      entities.RoleSystem,
		Content:   "Character updated: XP: +50",
		Metadata: map[string]interface{}{
			"type":    entities.MessageTypeCharacterUpdate,
			"updates": map[string]interface{}{"experience_points": 50},
		},
	}})
	s.Require().NoError(err)

	out, err := s.repo.ListBySessionID(s.ctx, message.ListBySessionIDInput{SessionID: "ses_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Messages, 1)
	s.Equal(entities.MessageTypeCharacterUpdate, out.Messages[0].Type())
}

func (s *RepositoryTestSuite) TestDeleteBySessionID() {
	s.appendN("ses_1", 3)
	s.appendN("ses_2", 2)

	out, err := s.repo.DeleteBySessionID(s.ctx, message.DeleteBySessionIDInput{SessionID: "ses_1"})
	s.Require().NoError(err)
	s.Equal(3, out.MessagesDeleted)

	list, err := s.repo.ListBySessionID(s.ctx, message.ListBySessionIDInput{SessionID: "ses_1"})
	s.Require().NoError(err)
	s.Empty(list.Messages)

	list, err = s.repo.ListBySessionID(s.ctx, message.ListBySessionIDInput{SessionID: "ses_2"})
	s.Require().NoError(err)
	s.Len(list.Messages, 2)
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Append(s.ctx, message.AppendInput{Message: &entities.Message{
		ID: "msg_1", SessionID: "ses_1", Role: "narrator",
	}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Append(s.ctx, message.AppendInput{})
	s.True(errors.IsInvalidArgument(err))
}
