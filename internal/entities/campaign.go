package entities

import (
	"time"
)

// Campaign statuses
const (
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// CampaignStatuses lists the accepted campaign statuses
var CampaignStatuses = []string{CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted}

// Campaign groups characters and play sessions
type Campaign struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session is one continuous play thread. CharacterID pins solo play,
// PartyCharacterIDs lists the characters of group play.
type Session struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id,omitempty"`
	CampaignID        string    `json:"campaign_id"`
	CharacterID       string    `json:"character_id,omitempty"`
	PartyCharacterIDs []string  `json:"party_character_ids,omitempty"`
	Title             string    `json:"title"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message metadata types
const (
	MessageTypeDiceRoll        = "dice_roll"
	MessageTypeCharacterUpdate = "character_update"
	MessageTypeAIResponse      = "ai_response"
)

// Message is an immutable entry in a session log
type Message struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Type returns the metadata type tag, if any
func (m *Message) Type() string {
	if m.Metadata == nil {
		return ""
	}
	t, _ := m.Metadata["type"].(string)
	return t
}
