package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	llmmock "github.com/KirkDiggler/dungeon-master/internal/clients/llm/mock"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/chat"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	charactersvc "github.com/KirkDiggler/dungeon-master/internal/services/character"
	charactermock "github.com/KirkDiggler/dungeon-master/internal/services/character/mock"
	chatsvc "github.com/KirkDiggler/dungeon-master/internal/services/chat"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
	"github.com/KirkDiggler/dungeon-master/internal/testutils/builders"
)

const attackTurn = `The goblin lunges from the brush! [DICE:d20:Attack Roll] [DICE:1d8:Damage]

characterUpdates: {"hit_points": -3, "conditions": ["Prone"]}`

// OrchestratorTestSuite runs narrator turns over miniredis-backed stores
// with a mocked narrator and character service
type OrchestratorTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	cleanup func()

	mockLLM        *llmmock.MockClient
	mockCharacters *charactermock.MockService

	sessionRepo sessionrepo.Repository
	messageRepo messagerepo.Repository
	pendingRepo pendingroll.Repository
	diceService dice.Service
	auditLog    *audit.Logger

	speaker *entities.Character
	ally    *entities.Character

	orchestrator *chat.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockLLM = llmmock.NewMockClient(s.ctrl)
	s.mockCharacters = charactermock.NewMockService(s.ctrl)

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	var err error
	s.sessionRepo, err = sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.messageRepo, err = messagerepo.NewRedis(&messagerepo.RedisConfig{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.pendingRepo = pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{Clock: clk})

	s.diceService, err = dice.NewOrchestrator(&dice.Config{PendingRollRepo: s.pendingRepo})
	s.Require().NoError(err)

	s.speaker = testutils.CreateTestCharacter(testutils.TestCampaignID)
	s.ally = builders.NewCharacterBuilder().
		WithID("chr-test-002").
		WithCampaignID(testutils.TestCampaignID).
		WithName("Lyra").
		WithClass("Wizard", 1).
		WithRace("Elf").
		Build()

	_, err = s.sessionRepo.Create(s.ctx, sessionrepo.CreateInput{
		Session: testutils.CreateTestSession(testutils.TestCampaignID, s.speaker.ID),
	})
	s.Require().NoError(err)

	bus := events.NewBus()
	s.auditLog = audit.NewLogger(bus)

	s.orchestrator, err = chat.New(&chat.Config{
		SessionRepo:        s.sessionRepo,
		MessageRepo:        s.messageRepo,
		PendingRollRepo:    s.pendingRepo,
		CharacterService:   s.mockCharacters,
		DiceService:        s.diceService,
		LLMClient:          s.mockLLM,
		MessageIDGenerator: idgen.NewSequential("msg"),
		EventBus:           bus,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.Require().NoError(s.auditLog.Close())
	s.cleanup()
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) expectParty() {
	s.mockCharacters.EXPECT().
		GetCharacter(s.ctx, &charactersvc.GetCharacterInput{CharacterID: s.speaker.ID}).
		Return(&charactersvc.GetCharacterOutput{Character: s.speaker}, nil)
	s.mockCharacters.EXPECT().
		ListCharacters(s.ctx, &charactersvc.ListCharactersInput{CampaignID: testutils.TestCampaignID}).
		Return(&charactersvc.ListCharactersOutput{Characters: []*entities.Character{s.speaker, s.ally}}, nil)
}

func (s *OrchestratorTestSuite) sessionLog() []*entities.Message {
	out, err := s.messageRepo.ListBySessionID(s.ctx, messagerepo.ListBySessionIDInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	return out.Messages
}

func (s *OrchestratorTestSuite) TestNew_MissingDependencies() {
	_, err := chat.New(&chat.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "SessionRepo")
	s.Contains(err.Error(), "DiceService")
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_FullTurn() {
	s.expectParty()

	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			s.Require().Len(input.Messages, 2)
			system := input.Messages[0]
			s.Equal(llm.RoleSystem, system.Role)
			s.Contains(system.Content, "CURRENT SPEAKING CHARACTER:\nName: "+s.speaker.Name)
			s.Contains(system.Content, "FULL PARTY DETAILS:\n- Lyra (Level 1 Elf Wizard)")
			s.NotContains(system.Content, "- "+s.speaker.Name+" (")
			s.Contains(system.Content, "No previous messages")
			s.Equal(llm.Message{Role: llm.RoleUser, Content: "I draw my axe."}, input.Messages[1])
			s.Equal(2000, input.MaxTokens)
			return &llm.CompleteOutput{Content: attackTurn, Model: "test-model"}, nil
		})

	updated := s.speaker.Clone()
	updated.HitPoints = 9
	updated.Conditions = []string{"Prone"}
	updated.Version = 2
	s.mockCharacters.EXPECT().
		ApplyMutation(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *charactersvc.ApplyMutationInput) (*charactersvc.ApplyMutationOutput, error) {
			s.Equal(s.speaker.ID, input.CharacterID)
			s.Equal(testutils.TestSessionID, input.SessionID)
			s.Equal(int64(1), input.ExpectedVersion)
			s.Require().NotNil(input.Mutation.HitPoints)
			s.Equal(-3, *input.Mutation.HitPoints)
			return &charactersvc.ApplyMutationOutput{
				Character: updated,
				Result: &reducer.Result{
					Next: updated,
					Changes: []reducer.Change{
						{Field: "hit_points", Before: 12, After: 9},
						{Field: "conditions", Before: []string{}, After: []string{"Prone"}},
					},
					Summary: "Character updated: HP: -3, Conditions: Prone",
				},
			}, nil
		})

	out, err := s.orchestrator.SubmitPlayerMessage(s.ctx, &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "I draw my axe.",
	})
	s.Require().NoError(err)

	s.Equal(entities.RoleUser, out.PlayerMessage.Role)

	turn := out.Turn
	s.NotContains(turn.Narrative, "characterUpdates")
	s.Contains(turn.Narrative, "[DICE:d20:Attack Roll]")
	s.Len(turn.Grouping.Related, 2)
	s.Empty(turn.Grouping.Independent)
	s.Require().NotNil(turn.PendingRolls)
	s.Len(turn.PendingRolls.Rolls, 2)
	s.Equal(s.speaker.ID, turn.PendingRolls.CharacterID)
	s.Equal(9, turn.Character.HitPoints)
	s.Equal("Character updated: HP: -3, Conditions: Prone", turn.Summary)

	var rolls int
	for _, f := range turn.Fragments {
		if f.Kind == narrative.FragmentRoll {
			rolls++
		}
	}
	s.Equal(2, rolls)

	log := s.sessionLog()
	s.Require().Len(log, 2)
	s.Equal(entities.RoleUser, log[0].Role)
	s.Equal(entities.RoleAssistant, log[1].Role)
	s.Equal(entities.MessageTypeAIResponse, log[1].Type())
	s.Equal(turn.Narrative, log[1].Content)

	set, err := s.pendingRepo.Get(s.ctx, pendingroll.GetInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Equal(2, set.Set.Outstanding())
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_IndependentRollsOpenNoSet() {
	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(&llm.CompleteOutput{Content: "Two paths lie ahead. [DICE:d20:Perception Check] [DICE:d20:Survival Check]"}, nil)

	out, err := s.orchestrator.SubmitPlayerMessage(s.ctx, &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "Which way?",
	})
	s.Require().NoError(err)
	s.Nil(out.Turn.PendingRolls)
	s.Len(out.Turn.Grouping.Independent, 2)
	s.Nil(out.Turn.Mutation)
	s.Equal(s.speaker, out.Turn.Character)

	_, err = s.pendingRepo.Get(s.ctx, pendingroll.GetInput{SessionID: testutils.TestSessionID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_ReplayedRequestID() {
	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(&llm.CompleteOutput{Content: "The door creaks open."}, nil).
		Times(1)

	input := &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "I open the door.",
		RequestID: "req-1",
	}
	_, err := s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.Require().NoError(err)

	_, err = s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))

	s.Len(s.sessionLog(), 2)
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_ProviderFailure() {
	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("upstream returned 502"))

	out, err := s.orchestrator.SubmitPlayerMessage(s.ctx, &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "Hello?",
	})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsProvider(err))
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))

	// the story did not advance, nothing is logged
	s.Empty(s.sessionLog())
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_RetryAfterProviderFailure() {
	input := &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "I search the altar.",
		RequestID: "req-9",
	}

	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("upstream returned 502"))

	_, err := s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsProvider(err))

	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(&llm.CompleteOutput{Content: "Beneath the dust you find a silver key."}, nil)

	out, err := s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.Require().NoError(err)
	s.Equal("Beneath the dust you find a silver key.", out.Turn.Narrative)

	log := s.sessionLog()
	s.Require().Len(log, 2)
	s.Equal("I search the altar.", log[0].Content)
	s.Equal(entities.RoleAssistant, log[1].Role)

	// the successful turn keeps its claim
	_, err = s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.True(errors.IsAlreadyExists(err))
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_RetryAfterMissingSession() {
	input := &chatsvc.SubmitPlayerMessageInput{
		SessionID: "ses-missing",
		Content:   "Hello?",
		RequestID: "req-10",
	}

	_, err := s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.SubmitPlayerMessage(s.ctx, input)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_Validation() {
	testCases := []struct {
		name  string
		input *chatsvc.SubmitPlayerMessageInput
	}{
		{name: "nil input", input: nil},
		{name: "missing session", input: &chatsvc.SubmitPlayerMessageInput{Content: "hi"}},
		{name: "blank content", input: &chatsvc.SubmitPlayerMessageInput{SessionID: testutils.TestSessionID, Content: "  "}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.orchestrator.SubmitPlayerMessage(s.ctx, tc.input)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *OrchestratorTestSuite) TestSubmitPlayerMessage_NoNarrator() {
	orch, err := chat.New(&chat.Config{
		SessionRepo:        s.sessionRepo,
		MessageRepo:        s.messageRepo,
		PendingRollRepo:    s.pendingRepo,
		CharacterService:   s.mockCharacters,
		DiceService:        s.diceService,
		MessageIDGenerator: idgen.NewSequential("msg"),
	})
	s.Require().NoError(err)

	_, err = orch.SubmitPlayerMessage(s.ctx, &chatsvc.SubmitPlayerMessageInput{
		SessionID: testutils.TestSessionID,
		Content:   "Hello?",
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestResolveDiceRoll_LoneRoll() {
	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			s.Contains(input.Messages[0].Content, "DICE RESULT: 1d20 (Perception Check) = 15")
			last := input.Messages[len(input.Messages)-1]
			s.Equal(llm.Message{Role: llm.RoleSystem, Content: "Dice roll result: 1d20 (Perception Check) = 15"}, last)
			return &llm.CompleteOutput{Content: "You spot tracks in the mud."}, nil
		})

	out, err := s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "d20",
		Reason:     "Perception Check",
		Result:     15,
	})
	s.Require().NoError(err)
	s.True(out.SetComplete)
	s.Nil(out.Set)
	s.Equal(15, out.Outcome.Total)
	s.NotEmpty(out.Outcome.Tier)
	s.Require().NotNil(out.Turn)
	s.Equal("You spot tracks in the mud.", out.Turn.Narrative)

	log := s.sessionLog()
	s.Require().Len(log, 2)
	s.Equal(entities.MessageTypeDiceRoll, log[0].Type())
	s.Equal("🎲 1d20 (Perception Check): 15", log[0].Content)
	s.Equal(entities.MessageTypeAIResponse, log[1].Type())

	s.Equal(1, s.auditLog.Count(audit.EventDiceRolled))
}

func (s *OrchestratorTestSuite) TestResolveDiceRoll_SetCompletesInAnyOrder() {
	_, err := s.diceService.OpenRollSet(s.ctx, &dice.OpenRollSetInput{
		SessionID:   testutils.TestSessionID,
		CharacterID: s.speaker.ID,
		Requests: []narrative.RollRequest{
			{Expression: "1d20", Reason: "Attack Roll"},
			{Expression: "1d8", Reason: "Damage"},
		},
	})
	s.Require().NoError(err)

	// damage first, nothing is forwarded yet
	first, err := s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "1d8",
		Reason:     "Damage",
		Result:     6,
	})
	s.Require().NoError(err)
	s.False(first.SetComplete)
	s.Nil(first.Turn)
	s.Equal(1, first.Set.Outstanding())

	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			s.Contains(input.Messages[0].Content, `MULTI-ROLL RESULTS: [{"diceType":"1d20","reason":"Attack Roll","result":17}`)
			last := input.Messages[len(input.Messages)-1]
			s.Equal("Multi-roll results: 1d20 (Attack Roll) = 17, 1d8 (Damage) = 6", last.Content)
			return &llm.CompleteOutput{Content: "Your axe bites deep. The goblin falls."}, nil
		})

	second, err := s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "1d20",
		Reason:     "Attack Roll",
		Result:     17,
	})
	s.Require().NoError(err)
	s.True(second.SetComplete)
	s.Require().NotNil(second.Turn)
	s.Equal("Your axe bites deep. The goblin falls.", second.Turn.Narrative)

	_, err = s.pendingRepo.Get(s.ctx, pendingroll.GetInput{SessionID: testutils.TestSessionID})
	s.True(errors.IsNotFound(err))

	log := s.sessionLog()
	s.Require().Len(log, 3)
	s.Equal(entities.MessageTypeDiceRoll, log[0].Type())
	s.Equal(entities.MessageTypeDiceRoll, log[1].Type())
	s.Equal(entities.RoleAssistant, log[2].Role)
}

func (s *OrchestratorTestSuite) TestResolveDiceRoll_RetryAfterProviderFailure() {
	_, err := s.diceService.OpenRollSet(s.ctx, &dice.OpenRollSetInput{
		SessionID:   testutils.TestSessionID,
		CharacterID: s.speaker.ID,
		Requests: []narrative.RollRequest{
			{Expression: "1d20", Reason: "Attack Roll"},
			{Expression: "1d8", Reason: "Damage"},
		},
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "1d20",
		Reason:     "Attack Roll",
		Result:     17,
		RequestID:  "roll-1",
	})
	s.Require().NoError(err)

	last := &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "1d8",
		Reason:     "Damage",
		Result:     6,
		RequestID:  "roll-2",
	}

	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("upstream returned 502"))

	_, err = s.orchestrator.ResolveDiceRoll(s.ctx, last)
	s.Require().Error(err)
	s.True(errors.IsProvider(err))

	// the recorded results survive the failed turn
	kept, err := s.pendingRepo.Get(s.ctx, pendingroll.GetInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.True(kept.Set.Complete())

	s.expectParty()
	s.mockLLM.EXPECT().
		Complete(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			last := input.Messages[len(input.Messages)-1]
			s.Equal("Multi-roll results: 1d20 (Attack Roll) = 17, 1d8 (Damage) = 6", last.Content)
			return &llm.CompleteOutput{Content: "The goblin crumples."}, nil
		})

	out, err := s.orchestrator.ResolveDiceRoll(s.ctx, last)
	s.Require().NoError(err)
	s.True(out.SetComplete)
	s.Equal(6, out.Outcome.Total)
	s.Require().NotNil(out.Turn)
	s.Equal("The goblin crumples.", out.Turn.Narrative)

	_, err = s.pendingRepo.Get(s.ctx, pendingroll.GetInput{SessionID: testutils.TestSessionID})
	s.True(errors.IsNotFound(err))

	// each roll is logged once
	log := s.sessionLog()
	s.Require().Len(log, 3)
	s.Equal(entities.MessageTypeDiceRoll, log[0].Type())
	s.Equal(entities.MessageTypeDiceRoll, log[1].Type())
	s.Equal(entities.RoleAssistant, log[2].Role)
}

func (s *OrchestratorTestSuite) TestResolveDiceRoll_InvalidResult() {
	_, err := s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID:  testutils.TestSessionID,
		Expression: "1d20",
		Reason:     "Attack Roll",
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestResolveDiceRoll_MissingSession() {
	_, err := s.orchestrator.ResolveDiceRoll(s.ctx, &chatsvc.ResolveDiceRollInput{
		SessionID: "ses-missing",
		Result:    12,
	})
	s.True(errors.IsNotFound(err))
}
