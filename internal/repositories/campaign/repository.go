// Package campaign provides the interface for campaign persistence
package campaign

//go:generate mockgen -destination=mock/mock_repository.go -package=campaignmock github.com/KirkDiggler/dungeon-master/internal/repositories/campaign Repository

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Repository defines the interface for campaign persistence
type Repository interface {
	// Create stores a new campaign
	// Returns errors.AlreadyExists if a campaign with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a campaign by ID
	// Returns errors.NotFound if the campaign doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a stored campaign
	// Returns errors.NotFound if the campaign doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a campaign. Dependent records are removed by the orchestrator.
	// Returns errors.NotFound if the campaign doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByUserID retrieves a user's campaigns, oldest first
	ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error)
}

// CreateInput defines the input for creating a campaign
type CreateInput struct {
	Campaign *entities.Campaign
}

// CreateOutput defines the output for creating a campaign
type CreateOutput struct {
	Campaign *entities.Campaign
}

// GetInput defines the input for getting a campaign
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a campaign
type GetOutput struct {
	Campaign *entities.Campaign
}

// UpdateInput defines the input for updating a campaign
type UpdateInput struct {
	Campaign *entities.Campaign
}

// UpdateOutput defines the output for updating a campaign
type UpdateOutput struct {
	Campaign *entities.Campaign
}

// DeleteInput defines the input for deleting a campaign
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a campaign
type DeleteOutput struct{}

// ListByUserIDInput defines the input for listing campaigns
type ListByUserIDInput struct {
	UserID string
}

// ListByUserIDOutput defines the output for listing campaigns
type ListByUserIDOutput struct {
	Campaigns []*entities.Campaign
}

const (
	errCampaignNil     = "campaign cannot be nil"
	errCampaignIDEmpty = "campaign ID cannot be empty"
	errUserIDEmpty     = "user ID cannot be empty"
)

func validateCampaign(c *entities.Campaign) error {
	if c == nil {
		return errors.InvalidArgument(errCampaignNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCampaignIDEmpty)
	}
	if c.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	return nil
}
