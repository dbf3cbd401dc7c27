// Package message provides the append-only session log
package message

//go:generate mockgen -destination=mock/mock_repository.go -package=messagemock github.com/KirkDiggler/dungeon-master/internal/repositories/message Repository

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Repository defines the interface for message persistence.
// Messages are immutable once appended.
type Repository interface {
	// Append adds a message to the end of its session log
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// ListBySessionID returns a session log in append order.
	// With Limit > 0 only the most recent Limit messages are returned.
	ListBySessionID(ctx context.Context, input ListBySessionIDInput) (*ListBySessionIDOutput, error)

	// DeleteBySessionID removes a whole session log
	DeleteBySessionID(ctx context.Context, input DeleteBySessionIDInput) (*DeleteBySessionIDOutput, error)
}

// AppendInput defines the input for appending a message
type AppendInput struct {
	Message *entities.Message
}

// AppendOutput defines the output for appending a message
type AppendOutput struct {
	Message *entities.Message
}

// ListBySessionIDInput defines the input for reading a session log
type ListBySessionIDInput struct {
	SessionID string
	Limit     int
}

// ListBySessionIDOutput defines the output for reading a session log
type ListBySessionIDOutput struct {
	Messages []*entities.Message
}

// DeleteBySessionIDInput defines the input for deleting a session log
type DeleteBySessionIDInput struct {
	SessionID string
}

// DeleteBySessionIDOutput reports how many messages were removed
type DeleteBySessionIDOutput struct {
	MessagesDeleted int
}

const (
	errMessageNil     = "message cannot be nil"
	errMessageIDEmpty = "message ID cannot be empty"
	errSessionIDEmpty = "session ID cannot be empty"
)

func validateMessage(m *entities.Message) error {
	if m == nil {
		return errors.InvalidArgument(errMessageNil)
	}
	if m.ID == "" {
		return errors.InvalidArgument(errMessageIDEmpty)
	}
	if m.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("role", m.Role, []string{entities.RoleUser, entities.RoleAssistant, entities.RoleSystem}, vb)
	return vb.Build()
}
