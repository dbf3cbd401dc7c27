package message

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/dungeon-master/internal/database"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
)

type sqlRepository struct {
	db    *database.DB
	clock clock.Clock
}

// SQLConfig contains configuration for the SQL message repository
type SQLConfig struct {
	DB    *database.DB
	Clock clock.Clock
}

// Validate validates the SQLConfig
func (cfg *SQLConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// NewSQL creates a message repository over postgres or sqlite
func NewSQL(cfg *SQLConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &sqlRepository{db: cfg.DB, clock: c}, nil
}

func (r *sqlRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateMessage(input.Message); err != nil {
		return nil, err
	}

	m := *input.Message
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.clock.Now()
	}

	data, err := json.Marshal(&m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal message")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO messages (id, session_id, data) VALUES (?, ?, ?)`),
		m.ID, m.SessionID, string(data))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("message with ID %s already exists", m.ID)
		}
		return nil, errors.Store(err, "failed to append message")
	}

	return &AppendOutput{Message: &m}, nil
}

func (r *sqlRepository) ListBySessionID(
	ctx context.Context,
	input ListBySessionIDInput,
) (*ListBySessionIDOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	query := `SELECT data FROM messages WHERE session_id = ? ORDER BY seq`
	args := []interface{}{input.SessionID}
	if input.Limit > 0 {
		query = `SELECT data FROM (
			SELECT seq, data FROM messages WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		) recent ORDER BY seq`
		args = append(args, input.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.Store(err, "failed to list messages")
	}
	defer rows.Close()

	messages := []*entities.Message{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Store(err, "failed to scan message")
		}
		var m entities.Message
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal message")
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Store(err, "failed to list messages")
	}

	return &ListBySessionIDOutput{Messages: messages}, nil
}

func (r *sqlRepository) DeleteBySessionID(
	ctx context.Context,
	input DeleteBySessionIDInput,
) (*DeleteBySessionIDOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM messages WHERE session_id = ?`), input.SessionID)
	if err != nil {
		return nil, errors.Store(err, "failed to delete messages")
	}

	n, _ := res.RowsAffected()
	return &DeleteBySessionIDOutput{MessagesDeleted: int(n)}, nil
}
