// Package character provides the interface for character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/dungeon-master/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character at version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if character with same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.NotFound if character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update writes a character whose Version is the version it was read at.
	// The stored version is incremented.
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Aborted if the character was written since it was read
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete deletes a character by ID
	// Returns errors.NotFound if character doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByCampaignID retrieves all characters of a campaign, oldest first
	ListByCampaignID(ctx context.Context, input ListByCampaignIDInput) (*ListByCampaignIDOutput, error)

	// ListByUserID retrieves all characters owned by a user, oldest first
	ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// UpdateInput defines the input for updating a character
type UpdateInput struct {
	Character *entities.Character
}

// UpdateOutput defines the output for updating a character
type UpdateOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListByCampaignIDInput defines the input for listing characters by campaign
type ListByCampaignIDInput struct {
	CampaignID string
}

// ListByCampaignIDOutput defines the output for listing characters by campaign
type ListByCampaignIDOutput struct {
	Characters []*entities.Character
}

// ListByUserIDInput defines the input for listing characters by user
type ListByUserIDInput struct {
	UserID string
}

// ListByUserIDOutput defines the output for listing characters by user
type ListByUserIDOutput struct {
	Characters []*entities.Character
}

const (
	// Error messages
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errCampaignIDEmpty  = "campaign ID cannot be empty"
	errUserIDEmpty      = "user ID cannot be empty"
)

func validateCharacter(c *entities.Character) error {
	if c == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	if c.CampaignID == "" {
		return errors.InvalidArgument(errCampaignIDEmpty)
	}
	return nil
}
