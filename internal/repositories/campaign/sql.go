package campaign

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

// SQLConfig contains configuration for the SQL campaign repository
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

// NewSQL creates a campaign repository over postgres or sqlite
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
	if err := validateCampaign(input.Campaign); err != nil {
		return nil, err
	}

	c := *input.Campaign
	now := r.clock.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	data, err := json.Marshal(&c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal campaign")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO campaigns (id, user_id, created_at, data) VALUES (?, ?, ?, ?)`),
		c.ID, c.UserID, database.FormatTime(now), string(data))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("campaign with ID %s already exists", c.ID)
		}
		return nil, errors.Store(err, "failed to create campaign")
	}

	return &CreateOutput{Campaign: &c}, nil
}

func (r *sqlRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT data FROM campaigns WHERE id = ?`), input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("campaign with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get campaign")
	}

	var c entities.Campaign
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal campaign")
	}
	return &GetOutput{Campaign: &c}, nil
}

func (r *sqlRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCampaign(input.Campaign); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Campaign.ID})
	if err != nil {
		return nil, err
	}

	c := *input.Campaign
	c.CreatedAt = existing.Campaign.CreatedAt
	c.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal campaign")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`UPDATE campaigns SET user_id = ?, data = ? WHERE id = ?`),
		c.UserID, string(data), c.ID)
	if err != nil {
		return nil, errors.Store(err, "failed to update campaign")
	}

	return &UpdateOutput{Campaign: &c}, nil
}

func (r *sqlRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM campaigns WHERE id = ?`), input.ID)
	if err != nil {
		return nil, errors.Store(err, "failed to delete campaign")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFoundf("campaign with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *sqlRepository) ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT data FROM campaigns WHERE user_id = ? ORDER BY created_at, id`), input.UserID)
	if err != nil {
		return nil, errors.Store(err, "failed to list campaigns")
	}
	defer rows.Close()

	campaigns := []*entities.Campaign{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Store(err, "failed to scan campaign")
		}
		var c entities.Campaign
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal campaign")
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Store(err, "failed to list campaigns")
	}

	return &ListByUserIDOutput{Campaigns: campaigns}, nil
}
