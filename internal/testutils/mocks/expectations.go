// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	characterrepomock "github.com/KirkDiggler/dungeon-master/internal/repositories/character/mock"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	messagerepomock "github.com/KirkDiggler/dungeon-master/internal/repositories/message/mock"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	sessionrepomock "github.com/KirkDiggler/dungeon-master/internal/repositories/session/mock"
)

// ExpectCharacterGet sets up a mock expectation for getting a character from the repository
func ExpectCharacterGet(
	ctx context.Context, mockRepo *characterrepomock.MockRepository,
	characterID string, char *entities.Character, err error,
) {
	if err != nil {
		mockRepo.EXPECT().
			Get(ctx, characterrepo.GetInput{ID: characterID}).
			Return(nil, err)
		return
	}

	mockRepo.EXPECT().
		Get(ctx, characterrepo.GetInput{ID: characterID}).
		Return(&characterrepo.GetOutput{Character: char.Clone()}, nil)
}

// ExpectCharacterUpdate expects one update and returns the written character at the next version
func ExpectCharacterUpdate(ctx context.Context, mockRepo *characterrepomock.MockRepository) {
	mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.UpdateInput) (*characterrepo.UpdateOutput, error) {
			next := input.Character.Clone()
			next.Version++
			return &characterrepo.UpdateOutput{Character: next}, nil
		})
}

// ExpectSessionGet sets up a mock expectation for getting a session
func ExpectSessionGet(
	ctx context.Context, mockRepo *sessionrepomock.MockRepository,
	sessionID string, session *entities.Session, err error,
) {
	if err != nil {
		mockRepo.EXPECT().
			Get(ctx, sessionrepo.GetInput{ID: sessionID}).
			Return(nil, err)
		return
	}

	mockRepo.EXPECT().
		Get(ctx, sessionrepo.GetInput{ID: sessionID}).
		Return(&sessionrepo.GetOutput{Session: session}, nil)
}

// ExpectMessageAppends accepts any number of appended messages and records them in order
func ExpectMessageAppends(ctx context.Context, mockRepo *messagerepomock.MockRepository, appended *[]*entities.Message) {
	mockRepo.EXPECT().
		Append(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input messagerepo.AppendInput) (*messagerepo.AppendOutput, error) {
			*appended = append(*appended, input.Message)
			return &messagerepo.AppendOutput{Message: input.Message}, nil
		}).
		AnyTimes()
}
