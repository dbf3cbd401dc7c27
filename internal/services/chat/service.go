// Package chat defines the narrator turn operations
package chat

//go:generate mockgen -destination=mock/mock_service.go -package=chatmock github.com/KirkDiggler/dungeon-master/internal/services/chat Service

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

// Service runs narrator turns for a session
type Service interface {
	// SubmitPlayerMessage records the player's message, asks the narrator for
	// the next turn and applies any character mutation it carries
	SubmitPlayerMessage(ctx context.Context, input *SubmitPlayerMessageInput) (*SubmitPlayerMessageOutput, error)

	// ResolveDiceRoll records a rolled result. When it completes the open roll
	// set, or is a lone roll, the narrator continues the story with the results.
	ResolveDiceRoll(ctx context.Context, input *ResolveDiceRollInput) (*ResolveDiceRollOutput, error)
}

// SubmitPlayerMessageInput defines a player turn
type SubmitPlayerMessageInput struct {
	SessionID string
	Content   string
	// CharacterID overrides the session's character for group play
	CharacterID string
	// RequestID de-duplicates retried submissions
	RequestID string
	Model     string
}

// Turn is one processed narrator response
type Turn struct {
	// Narrative is the narrator text with the mutation object removed
	Narrative string               `json:"narrative"`
	Fragments []narrative.Fragment `json:"fragments"`
	Grouping  narrative.Grouping   `json:"grouping"`
	// PendingRolls is the open set when the turn asked for related rolls
	PendingRolls *pendingroll.PendingRollSet `json:"pending_rolls,omitempty"`
	Mutation     *narrative.Mutation         `json:"mutation,omitempty"`
	// Character is the speaking character after the mutation, if any
	Character *entities.Character `json:"character,omitempty"`
	// Summary is the change summary appended to the log as a system message
	Summary string            `json:"summary,omitempty"`
	Message *entities.Message `json:"message"`
}

// SubmitPlayerMessageOutput contains the stored player message and the narrator turn
type SubmitPlayerMessageOutput struct {
	PlayerMessage *entities.Message
	Turn          *Turn
}

// ResolveDiceRollInput is a rolled result posted by the player
type ResolveDiceRollInput struct {
	SessionID   string
	CharacterID string
	Expression  string
	Reason      string
	Result      int
	RequestID   string
	Model       string
}

// ResolveDiceRollOutput reports the evaluated roll and, once the set is
// complete, the narrator's follow-up turn
type ResolveDiceRollOutput struct {
	Outcome     *dice.Outcome
	SetComplete bool
	// Set is the open set while incomplete, or the completed set
	Set *pendingroll.PendingRollSet
	// Turn is nil until the set is complete
	Turn *Turn
}
