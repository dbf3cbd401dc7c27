package session

import (
	"context"
	"database/sql"
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

// SQLConfig contains configuration for the SQL session repository
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

// NewSQL creates a session repository over postgres or sqlite
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

func (r *sqlRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	s := cloneSession(input.Session)
	now := r.clock.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO sessions (id, campaign_id, created_at, data) VALUES (?, ?, ?, ?)`),
		s.ID, s.CampaignID, database.FormatTime(now), string(data))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("session with ID %s already exists", s.ID)
		}
		return nil, errors.Store(err, "failed to create session")
	}

	return &CreateOutput{Session: s}, nil
}

func (r *sqlRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT data FROM sessions WHERE id = ?`), input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("session with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get session")
	}

	var s entities.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}
	return &GetOutput{Session: &s}, nil
}

func (r *sqlRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Session.ID})
	if err != nil {
		return nil, err
	}

	s := cloneSession(input.Session)
	s.CreatedAt = existing.Session.CreatedAt
	s.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`UPDATE sessions SET campaign_id = ?, data = ? WHERE id = ?`),
		s.CampaignID, string(data), s.ID)
	if err != nil {
		return nil, errors.Store(err, "failed to update session")
	}

	return &UpdateOutput{Session: s}, nil
}

func (r *sqlRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), input.ID)
	if err != nil {
		return nil, errors.Store(err, "failed to delete session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFoundf("session with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *sqlRepository) ListByCampaignID(
	ctx context.Context,
	input ListByCampaignIDInput,
) (*ListByCampaignIDOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT data FROM sessions WHERE campaign_id = ? ORDER BY created_at, id`), input.CampaignID)
	if err != nil {
		return nil, errors.Store(err, "failed to list sessions")
	}
	defer rows.Close()

	sessions := []*entities.Session{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Store(err, "failed to scan session")
		}
		var s entities.Session
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal session")
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Store(err, "failed to list sessions")
	}

	return &ListByCampaignIDOutput{Sessions: sessions}, nil
}
