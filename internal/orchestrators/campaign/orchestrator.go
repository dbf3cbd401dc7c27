// Package campaign implements the campaign orchestrator: campaigns, their play
// sessions and the session logs, with cascading deletes
package campaign

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
	campaignrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/campaign"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	"github.com/KirkDiggler/dungeon-master/internal/services/campaign"
)

// Config holds the dependencies for the campaign orchestrator
type Config struct {
	CampaignRepo  campaignrepo.Repository
	CharacterRepo characterrepo.Repository
	SessionRepo   sessionrepo.Repository
	MessageRepo   messagerepo.Repository

	// PendingRollRepo, when set, has a deleted session's open roll set discarded
	PendingRollRepo pendingroll.Repository

	CampaignIDGenerator idgen.Generator
	SessionIDGenerator  idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.MessageRepo == nil {
		vb.RequiredField("MessageRepo")
	}
	if c.CampaignIDGenerator == nil {
		vb.RequiredField("CampaignIDGenerator")
	}
	if c.SessionIDGenerator == nil {
		vb.RequiredField("SessionIDGenerator")
	}

	return vb.Build()
}

// Orchestrator implements the campaign.Service interface
type Orchestrator struct {
	campaignRepo    campaignrepo.Repository
	characterRepo   characterrepo.Repository
	sessionRepo     sessionrepo.Repository
	messageRepo     messagerepo.Repository
	pendingRollRepo pendingroll.Repository
	campaignIDs     idgen.Generator
	sessionIDs      idgen.Generator
}

// New creates a new campaign orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		campaignRepo:    cfg.CampaignRepo,
		characterRepo:   cfg.CharacterRepo,
		sessionRepo:     cfg.SessionRepo,
		messageRepo:     cfg.MessageRepo,
		pendingRollRepo: cfg.PendingRollRepo,
		campaignIDs:     cfg.CampaignIDGenerator,
		sessionIDs:      cfg.SessionIDGenerator,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ campaign.Service = (*Orchestrator)(nil)

// CreateCampaign stores a new campaign, active unless a status is given
func (o *Orchestrator) CreateCampaign(ctx context.Context, input *campaign.CreateCampaignInput) (*campaign.CreateCampaignOutput, error) {
	if input == nil || input.Campaign == nil {
		return nil, errors.InvalidArgument("campaign is required")
	}

	c := *input.Campaign
	if c.Status == "" {
		c.Status = entities.CampaignStatusActive
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("user_id", c.UserID, vb)
	errors.ValidateRequired("title", c.Title, vb)
	errors.ValidateEnum("status", c.Status, entities.CampaignStatuses, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c.ID = o.campaignIDs.Generate()

	out, err := o.campaignRepo.Create(ctx, campaignrepo.CreateInput{Campaign: &c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create campaign")
	}

	slog.InfoContext(ctx, "Campaign created",
		"campaign_id", out.Campaign.ID,
		"user_id", out.Campaign.UserID)

	return &campaign.CreateCampaignOutput{Campaign: out.Campaign}, nil
}

// GetCampaign retrieves a campaign by ID
func (o *Orchestrator) GetCampaign(ctx context.Context, input *campaign.GetCampaignInput) (*campaign.GetCampaignOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}

	out, err := o.campaignRepo.Get(ctx, campaignrepo.GetInput{ID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign").
			WithMeta("campaign_id", input.CampaignID)
	}

	return &campaign.GetCampaignOutput{Campaign: out.Campaign}, nil
}

// ListCampaigns lists a user's campaigns
func (o *Orchestrator) ListCampaigns(ctx context.Context, input *campaign.ListCampaignsInput) (*campaign.ListCampaignsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	out, err := o.campaignRepo.ListByUserID(ctx, campaignrepo.ListByUserIDInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}

	return &campaign.ListCampaignsOutput{Campaigns: out.Campaigns}, nil
}

// UpdateCampaign edits title, description or status
func (o *Orchestrator) UpdateCampaign(ctx context.Context, input *campaign.UpdateCampaignInput) (*campaign.UpdateCampaignOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}
	if input.Patch == nil {
		return nil, errors.InvalidArgument("patch is required")
	}

	getOut, err := o.campaignRepo.Get(ctx, campaignrepo.GetInput{ID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign").
			WithMeta("campaign_id", input.CampaignID)
	}

	c := *getOut.Campaign
	vb := errors.NewValidationBuilder()
	if input.Patch.Title != nil {
		errors.ValidateRequired("title", *input.Patch.Title, vb)
		c.Title = *input.Patch.Title
	}
	if input.Patch.Description != nil {
		c.Description = *input.Patch.Description
	}
	if input.Patch.Status != nil {
		errors.ValidateEnum("status", *input.Patch.Status, entities.CampaignStatuses, vb)
		c.Status = *input.Patch.Status
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.campaignRepo.Update(ctx, campaignrepo.UpdateInput{Campaign: &c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update campaign").
			WithMeta("campaign_id", input.CampaignID)
	}

	return &campaign.UpdateCampaignOutput{Campaign: out.Campaign}, nil
}

// DeleteCampaign removes the campaign's sessions with their logs, then its
// characters, then the campaign itself
func (o *Orchestrator) DeleteCampaign(ctx context.Context, input *campaign.DeleteCampaignInput) (*campaign.DeleteCampaignOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}

	if _, err := o.campaignRepo.Get(ctx, campaignrepo.GetInput{ID: input.CampaignID}); err != nil {
		return nil, errors.Wrap(err, "failed to get campaign").
			WithMeta("campaign_id", input.CampaignID)
	}

	sessions, err := o.sessionRepo.ListByCampaignID(ctx, sessionrepo.ListByCampaignIDInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	output := &campaign.DeleteCampaignOutput{}
	for _, s := range sessions.Sessions {
		deleted, err := o.deleteSession(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		output.SessionsDeleted++
		output.MessagesDeleted += deleted
	}

	characters, err := o.characterRepo.ListByCampaignID(ctx, characterrepo.ListByCampaignIDInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	for _, c := range characters.Characters {
		if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: c.ID}); err != nil && !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to delete character %s", c.ID)
		}
		output.CharactersDeleted++
	}

	if _, err := o.campaignRepo.Delete(ctx, campaignrepo.DeleteInput{ID: input.CampaignID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete campaign").
			WithMeta("campaign_id", input.CampaignID)
	}

	slog.InfoContext(ctx, "Campaign deleted",
		"campaign_id", input.CampaignID,
		"sessions_deleted", output.SessionsDeleted,
		"characters_deleted", output.CharactersDeleted,
		"messages_deleted", output.MessagesDeleted)

	return output, nil
}

// CreateSession opens a play session. A solo session's character must
// belong to the same campaign.
func (o *Orchestrator) CreateSession(ctx context.Context, input *campaign.CreateSessionInput) (*campaign.CreateSessionOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	s := *input.Session
	if s.PartyCharacterIDs != nil {
		s.PartyCharacterIDs = append([]string{}, s.PartyCharacterIDs...)
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("campaign_id", s.CampaignID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	camp, err := o.campaignRepo.Get(ctx, campaignrepo.GetInput{ID: s.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign").
			WithMeta("campaign_id", s.CampaignID)
	}
	if s.UserID == "" {
		s.UserID = camp.Campaign.UserID
	}

	members := append([]string{}, s.PartyCharacterIDs...)
	if s.CharacterID != "" {
		members = append(members, s.CharacterID)
	}
	for _, id := range members {
		charOut, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: id})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get session character").
				WithMeta("character_id", id)
		}
		if charOut.Character.CampaignID != s.CampaignID {
			return nil, errors.InvalidArgumentf("character %s does not belong to campaign %s", id, s.CampaignID)
		}
	}

	if s.Title == "" {
		s.Title = camp.Campaign.Title
	}
	s.ID = o.sessionIDs.Generate()

	out, err := o.sessionRepo.Create(ctx, sessionrepo.CreateInput{Session: &s})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	slog.InfoContext(ctx, "Session created",
		"session_id", out.Session.ID,
		"campaign_id", out.Session.CampaignID,
		"character_id", out.Session.CharacterID)

	return &campaign.CreateSessionOutput{Session: out.Session}, nil
}

// GetSession retrieves a session by ID
func (o *Orchestrator) GetSession(ctx context.Context, input *campaign.GetSessionInput) (*campaign.GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get session").
			WithMeta("session_id", input.SessionID)
	}

	return &campaign.GetSessionOutput{Session: out.Session}, nil
}

// ListSessions lists a campaign's sessions
func (o *Orchestrator) ListSessions(ctx context.Context, input *campaign.ListSessionsInput) (*campaign.ListSessionsOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}

	out, err := o.sessionRepo.ListByCampaignID(ctx, sessionrepo.ListByCampaignIDInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	return &campaign.ListSessionsOutput{Sessions: out.Sessions}, nil
}

// DeleteSession removes a session and its log
func (o *Orchestrator) DeleteSession(ctx context.Context, input *campaign.DeleteSessionInput) (*campaign.DeleteSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	if _, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{ID: input.SessionID}); err != nil {
		return nil, errors.Wrap(err, "failed to get session").
			WithMeta("session_id", input.SessionID)
	}

	deleted, err := o.deleteSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Session deleted",
		"session_id", input.SessionID,
		"messages_deleted", deleted)

	return &campaign.DeleteSessionOutput{MessagesDeleted: deleted}, nil
}

// ListMessages returns a session log in append order
func (o *Orchestrator) ListMessages(ctx context.Context, input *campaign.ListMessagesInput) (*campaign.ListMessagesOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	out, err := o.messageRepo.ListBySessionID(ctx, messagerepo.ListBySessionIDInput{
		SessionID: input.SessionID,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages").
			WithMeta("session_id", input.SessionID)
	}

	return &campaign.ListMessagesOutput{Messages: out.Messages}, nil
}

// deleteSession removes the log, any open roll set and the session, returning the number of messages removed
func (o *Orchestrator) deleteSession(ctx context.Context, sessionID string) (int, error) {
	msgOut, err := o.messageRepo.DeleteBySessionID(ctx, messagerepo.DeleteBySessionIDInput{SessionID: sessionID})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete messages of session %s", sessionID)
	}

	if o.pendingRollRepo != nil {
		if _, err := o.pendingRollRepo.Delete(ctx, pendingroll.DeleteInput{SessionID: sessionID}); err != nil {
			slog.WarnContext(ctx, "failed to discard open roll set",
				"session_id", sessionID,
				"error", err.Error())
		}
	}

	if _, err := o.sessionRepo.Delete(ctx, sessionrepo.DeleteInput{ID: sessionID}); err != nil && !errors.IsNotFound(err) {
		return 0, errors.Wrapf(err, "failed to delete session %s", sessionID)
	}

	return msgOut.MessagesDeleted, nil
}
