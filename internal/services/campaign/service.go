// Package campaign defines the interface for campaign, session and session log operations
package campaign

//go:generate mockgen -destination=mock/mock_service.go -package=campaignmock github.com/KirkDiggler/dungeon-master/internal/services/campaign Service

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
)

// Service defines the interface for campaign operations
type Service interface {
	// Campaigns
	CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*CreateCampaignOutput, error)
	GetCampaign(ctx context.Context, input *GetCampaignInput) (*GetCampaignOutput, error)
	ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)
	UpdateCampaign(ctx context.Context, input *UpdateCampaignInput) (*UpdateCampaignOutput, error)
	// DeleteCampaign removes the campaign with its sessions, their messages and its characters
	DeleteCampaign(ctx context.Context, input *DeleteCampaignInput) (*DeleteCampaignOutput, error)

	// Sessions
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)
	// DeleteSession removes the session and its messages
	DeleteSession(ctx context.Context, input *DeleteSessionInput) (*DeleteSessionOutput, error)

	// Session log
	ListMessages(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error)
}

// CreateCampaignInput defines the request for creating a campaign
type CreateCampaignInput struct {
	Campaign *entities.Campaign
}

// CreateCampaignOutput defines the response for creating a campaign
type CreateCampaignOutput struct {
	Campaign *entities.Campaign
}

// GetCampaignInput defines the request for getting a campaign
type GetCampaignInput struct {
	CampaignID string
}

// GetCampaignOutput defines the response for getting a campaign
type GetCampaignOutput struct {
	Campaign *entities.Campaign
}

// ListCampaignsInput defines the request for listing a user's campaigns
type ListCampaignsInput struct {
	UserID string
}

// ListCampaignsOutput defines the response for listing campaigns
type ListCampaignsOutput struct {
	Campaigns []*entities.Campaign
}

// CampaignPatch is a partial edit. Nil fields are left unchanged.
type CampaignPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// UpdateCampaignInput defines the request for updating a campaign
type UpdateCampaignInput struct {
	CampaignID string
	Patch      *CampaignPatch
}

// UpdateCampaignOutput defines the response for updating a campaign
type UpdateCampaignOutput struct {
	Campaign *entities.Campaign
}

// DeleteCampaignInput defines the request for deleting a campaign
type DeleteCampaignInput struct {
	CampaignID string
}

// DeleteCampaignOutput reports what the cascade removed
type DeleteCampaignOutput struct {
	CharactersDeleted int
	SessionsDeleted   int
	MessagesDeleted   int
}

// CreateSessionInput defines the request for creating a session
type CreateSessionInput struct {
	Session *entities.Session
}

// CreateSessionOutput defines the response for creating a session
type CreateSessionOutput struct {
	Session *entities.Session
}

// GetSessionInput defines the request for getting a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput defines the response for getting a session
type GetSessionOutput struct {
	Session *entities.Session
}

// ListSessionsInput defines the request for listing a campaign's sessions
type ListSessionsInput struct {
	CampaignID string
}

// ListSessionsOutput defines the response for listing sessions
type ListSessionsOutput struct {
	Sessions []*entities.Session
}

// DeleteSessionInput defines the request for deleting a session
type DeleteSessionInput struct {
	SessionID string
}

// DeleteSessionOutput reports what the cascade removed
type DeleteSessionOutput struct {
	MessagesDeleted int
}

// ListMessagesInput defines the request for reading a session log
type ListMessagesInput struct {
	SessionID string
	// Limit keeps only the most recent messages when positive
	Limit int
}

// ListMessagesOutput contains the log in append order
type ListMessagesOutput struct {
	Messages []*entities.Message
}
