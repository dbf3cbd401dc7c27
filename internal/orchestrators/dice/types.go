package dice

import (
	"time"

	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

// RollDiceInput defines the request for a server-side roll
type RollDiceInput struct {
	Expression string
	Reason     string
}

// RollDiceOutput defines the response for a server-side roll
type RollDiceOutput struct {
	Outcome *Outcome
}

// OpenRollSetInput defines the request for opening a set of related rolls
type OpenRollSetInput struct {
	SessionID   string
	CharacterID string
	Requests    []narrative.RollRequest
	TTL         time.Duration
}

// OpenRollSetOutput defines the response for opening a roll set
type OpenRollSetOutput struct {
	Set *pendingroll.PendingRollSet
}

// RecordResultInput defines a roll result reported by the player
type RecordResultInput struct {
	SessionID  string
	Expression string
	Reason     string
	Result     int
}

// RecordResultOutput defines the response for recording a result
type RecordResultOutput struct {
	Outcome *Outcome

	// Set is the open set the result was recorded in, nil for a lone roll
	Set *pendingroll.PendingRollSet

	// Complete is true when the result can be forwarded: a lone roll, or
	// the last outstanding roll of a set. A complete set stays stored until
	// ClearRollSet closes it.
	Complete bool

	// Redelivered is true when the result matched a roll of a set that was
	// already complete; nothing new was recorded
	Redelivered bool
}

// GetRollSetInput defines the request for a session's open set
type GetRollSetInput struct {
	SessionID string
}

// GetRollSetOutput defines the response for a session's open set
type GetRollSetOutput struct {
	Set *pendingroll.PendingRollSet
}

// ClearRollSetInput defines the request for discarding a session's open set
type ClearRollSetInput struct {
	SessionID string
}

// ClearRollSetOutput defines the response for discarding a set
type ClearRollSetOutput struct {
	RollsDeleted int
}
