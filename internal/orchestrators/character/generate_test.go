package character_test

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/character"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	charactersvc "github.com/KirkDiggler/dungeon-master/internal/services/character"
	"github.com/KirkDiggler/dungeon-master/internal/testutils"
	"github.com/KirkDiggler/dungeon-master/internal/testutils/mocks"
)

const generatedJSON = "```json\n" + `{
  "welcomeMessage": "Welcome, Mira! [DICE:d20:Destiny Check]",
  "characterStats": {
    "ability_scores": {"strength": 8, "dex": 16, "con": 14, "int": 12, "wis": 13, "cha": 10},
    "armor_class": 14,
    "skills": ["Stealth", "Acrobatics"],
    "equipment": ["Shortsword", "Shortbow"],
    "inventory": [{"name": "Arrows", "quantity": 20}, "Thieves' Tools"]
  }
}` + "\n```"

func (s *OrchestratorTestSuite) expectCreate() {
	s.mockCharRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.CreateInput) (*characterrepo.CreateOutput, error) {
			created := input.Character.Clone()
			created.Version = 1
			return &characterrepo.CreateOutput{Character: created}, nil
		})
}

func (s *OrchestratorTestSuite) TestGenerateCharacter_UsesNarratorStats() {
	s.mockLLMClient.EXPECT().
		Complete(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			s.Require().Len(input.Messages, 2)
			s.Contains(input.Messages[0].Content, "Name: Mira")
			s.Contains(input.Messages[0].Content, "Race: Halfling")
			s.Equal("Create a new character: Mira, a Halfling Rogue", input.Messages[1].Content)
			s.Equal(1000, input.MaxTokens)
			s.Require().NotNil(input.ResponseFormat)
			return &llm.CompleteOutput{Content: generatedJSON}, nil
		})
	// no hit points in the response, so the SRD hit die seeds them
	s.mockExternalClient.EXPECT().
		ClassHitDie(s.ctx, "Rogue").
		Return(8, nil)
	s.expectCreate()

	var appended []*entities.Message
	mocks.ExpectMessageAppends(s.ctx, s.mockMessageRepo, &appended)

	out, err := s.orchestrator.GenerateCharacter(s.ctx, &charactersvc.GenerateCharacterInput{
		CampaignID: testutils.TestCampaignID,
		Name:       "Mira",
		Class:      "Rogue",
		Race:       "Halfling",
		SessionID:  testutils.TestSessionID,
	})
	s.Require().NoError(err)
	s.False(out.Fallback)
	s.Equal("Welcome, Mira! [DICE:d20:Destiny Check]", out.WelcomeMessage)

	char := out.Character
	s.Equal(8, char.AbilityScores.Strength)
	s.Equal(16, char.AbilityScores.Dexterity)
	s.Equal(14, char.ArmorClass)
	s.Equal(10, char.MaxHitPoints) // d8 + CON 14
	s.Equal(10, char.HitPoints)
	s.Equal(entities.ItemList{"Arrows (20)", "Thieves' Tools"}, char.Inventory)
	s.Contains(char.Skills, "Stealth")

	s.Require().Len(appended, 1)
	s.Equal(entities.RoleAssistant, appended[0].Role)
	s.Equal(out.WelcomeMessage, appended[0].Content)
}

func (s *OrchestratorTestSuite) TestGenerateCharacter_FallbackOnUnparseableResponse() {
	s.mockLLMClient.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(&llm.CompleteOutput{Content: "Of course! Here is your hero: a brave soul."}, nil)
	s.expectCreate()

	out, err := s.orchestrator.GenerateCharacter(s.ctx, &charactersvc.GenerateCharacterInput{
		CampaignID: testutils.TestCampaignID,
		Name:       "Borin",
	})
	s.Require().NoError(err)
	s.True(out.Fallback)
	s.Equal("Welcome, Borin! A new adventurer joins the fray. May your journey be filled with glory and treasure!", out.WelcomeMessage)

	char := out.Character
	s.Equal(character.DefaultClass, char.Class)
	s.Equal(character.DefaultRace, char.Race)
	s.Equal(12, char.AbilityScores.Wisdom)
	s.Equal(8, char.HitPoints)
	s.Equal(8, char.MaxHitPoints)
	s.Equal(10, char.ArmorClass)
	s.Equal(entities.ItemList{"Simple weapon", "Backpack"}, char.Equipment)
	s.Equal(entities.ItemList{"Rations (1 day)", "Waterskin"}, char.Inventory)
	s.Equal(entities.Skills{"Athletics": 0}, char.Skills)
}

func (s *OrchestratorTestSuite) TestGenerateCharacter_MissingStatsFallsBack() {
	s.mockLLMClient.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(&llm.CompleteOutput{Content: `{"welcomeMessage": "Hail!"}`}, nil)
	s.expectCreate()

	out, err := s.orchestrator.GenerateCharacter(s.ctx, &charactersvc.GenerateCharacterInput{
		CampaignID: testutils.TestCampaignID,
		Name:       "Borin",
	})
	s.Require().NoError(err)
	s.True(out.Fallback)
}

func (s *OrchestratorTestSuite) TestGenerateCharacter_ProviderFailure() {
	s.mockLLMClient.EXPECT().
		Complete(s.ctx, gomock.Any()).
		Return(nil, errors.ResourceExhausted("rate limited"))

	out, err := s.orchestrator.GenerateCharacter(s.ctx, &charactersvc.GenerateCharacterInput{
		CampaignID: testutils.TestCampaignID,
		Name:       "Borin",
	})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsProvider(err))
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestGenerateCharacter_RequiresName() {
	_, err := s.orchestrator.GenerateCharacter(s.ctx, &charactersvc.GenerateCharacterInput{
		CampaignID: testutils.TestCampaignID,
	})
	s.True(errors.IsInvalidArgument(err))
}
