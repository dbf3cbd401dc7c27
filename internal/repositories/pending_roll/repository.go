// Package pendingroll stores the ephemeral roll sets a narrator turn opens and
// the request ids already processed for a session
package pendingroll

import (
	"context"
	"strings"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=pendingrollmock github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll Repository

// PendingRollSet is a group of related roll requests that must all carry a
// result before the set is forwarded to the narrator
type PendingRollSet struct {
	// Session the set belongs to; at most one open set per session
	SessionID string `json:"session_id"`

	// CharacterID of the character that rolls, if known
	CharacterID string `json:"character_id,omitempty"`

	Rolls []PendingRoll `json:"rolls"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PendingRoll is one member of a set
type PendingRoll struct {
	Expression string `json:"expression"`
	Reason     string `json:"reason"`
	DC         *int   `json:"dc,omitempty"`

	// Result is nil until the roll is resolved
	Result  *int   `json:"result,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Tier    string `json:"tier,omitempty"`
}

// Resolved reports whether the roll has a result
func (r PendingRoll) Resolved() bool {
	return r.Result != nil
}

// Complete reports whether every roll in the set has a result
func (s *PendingRollSet) Complete() bool {
	if s == nil || len(s.Rolls) == 0 {
		return false
	}
	for _, r := range s.Rolls {
		if !r.Resolved() {
			return false
		}
	}
	return true
}

// Outstanding returns the number of rolls still waiting for a result
func (s *PendingRollSet) Outstanding() int {
	n := 0
	for _, r := range s.Rolls {
		if !r.Resolved() {
			n++
		}
	}
	return n
}

// Match returns the index of the first unresolved roll for a reason,
// preferring one whose expression also matches. Returns -1 when none is open.
func (s *PendingRollSet) Match(expression, reason string) int {
	return s.match(expression, reason, false)
}

// MatchResolved is Match over the rolls that already carry a result
func (s *PendingRollSet) MatchResolved(expression, reason string) int {
	return s.match(expression, reason, true)
}

func (s *PendingRollSet) match(expression, reason string, resolved bool) int {
	fallback := -1
	for i, r := range s.Rolls {
		if r.Resolved() != resolved || !strings.EqualFold(strings.TrimSpace(r.Reason), strings.TrimSpace(reason)) {
			continue
		}
		if strings.EqualFold(r.Expression, expression) {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

// CreateInput contains parameters for opening a roll set
type CreateInput struct {
	Set *PendingRollSet
	TTL time.Duration
}

// CreateOutput contains the stored roll set
type CreateOutput struct {
	Set *PendingRollSet
}

// GetInput identifies a session's open set
type GetInput struct {
	SessionID string
}

// GetOutput contains the open set
type GetOutput struct {
	Set *PendingRollSet
}

// UpdateFunc edits an open set in place. Returning false leaves the stored
// set untouched. It may run more than once when a concurrent write wins.
type UpdateFunc func(set *PendingRollSet) (bool, error)

// UpdateInput contains parameters for a read-modify-write of an open set
type UpdateInput struct {
	SessionID string
	Fn        UpdateFunc
}

// UpdateOutput contains the set as seen by the last run of Fn
type UpdateOutput struct {
	Set     *PendingRollSet
	Updated bool
}

// DeleteInput identifies the set to discard
type DeleteInput struct {
	SessionID string
}

// DeleteOutput reports how many rolls were discarded
type DeleteOutput struct {
	RollsDeleted int
}

// ClaimRequestInput identifies a client request id within a session
type ClaimRequestInput struct {
	SessionID string
	RequestID string
	TTL       time.Duration
}

// ClaimRequestOutput reports whether the caller is the first to claim the id
type ClaimRequestOutput struct {
	Claimed bool
}

// ReleaseRequestInput identifies a claimed request id to forget
type ReleaseRequestInput struct {
	SessionID string
	RequestID string
}

// Repository defines storage for pending roll sets and processed request ids
type Repository interface {
	// Create stores a new roll set, replacing any open set for the session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves the open set for a session
	// Returns errors.NotFound if none is open or it expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update runs Fn against the open set and stores the result atomically,
	// keeping the remaining TTL. Returns errors.NotFound if none is open.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete discards the open set; deleting a missing set is not an error
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ClaimRequest records a request id, reporting false if it was already recorded
	ClaimRequest(ctx context.Context, input ClaimRequestInput) (*ClaimRequestOutput, error)

	// ReleaseRequest forgets a claimed request id so the request can be retried
	ReleaseRequest(ctx context.Context, input ReleaseRequestInput) error
}
