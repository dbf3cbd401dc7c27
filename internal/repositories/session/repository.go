// Package session provides the interface for play session persistence
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/dungeon-master/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Repository defines the interface for session persistence
type Repository interface {
	// Create stores a new session
	// Returns errors.AlreadyExists if a session with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a stored session
	// Returns errors.NotFound if the session doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session. Its messages are removed by the orchestrator.
	// Returns errors.NotFound if the session doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByCampaignID retrieves a campaign's sessions, oldest first
	ListByCampaignID(ctx context.Context, input ListByCampaignIDInput) (*ListByCampaignIDOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.Session
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.Session
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.Session
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session *entities.Session
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.Session
}

// DeleteInput defines the input for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a session
type DeleteOutput struct{}

// ListByCampaignIDInput defines the input for listing sessions
type ListByCampaignIDInput struct {
	CampaignID string
}

// ListByCampaignIDOutput defines the output for listing sessions
type ListByCampaignIDOutput struct {
	Sessions []*entities.Session
}

const (
	errSessionNil      = "session cannot be nil"
	errSessionIDEmpty  = "session ID cannot be empty"
	errCampaignIDEmpty = "campaign ID cannot be empty"
)

func validateSession(s *entities.Session) error {
	if s == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if s.ID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if s.CampaignID == "" {
		return errors.InvalidArgument(errCampaignIDEmpty)
	}
	return nil
}

func cloneSession(s *entities.Session) *entities.Session {
	out := *s
	if s.PartyCharacterIDs != nil {
		out.PartyCharacterIDs = append([]string{}, s.PartyCharacterIDs...)
	}
	return &out
}
