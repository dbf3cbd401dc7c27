package character

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

// SQLConfig contains configuration for the SQL character repository.
type SQLConfig struct {
	DB    *database.DB
	Clock clock.Clock
}

// Validate validates the SQLConfig.
func (cfg *SQLConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// NewSQL creates a character repository over postgres or sqlite
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
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	char := input.Character.Clone()
	now := r.clock.Now()
	char.Version = 1
	char.CreatedAt = now
	char.UpdatedAt = now

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO characters (id, campaign_id, user_id, version, created_at, data) VALUES (?, ?, ?, ?, ?, ?)`),
		char.ID, char.CampaignID, char.UserID, char.Version, database.FormatTime(now), string(data),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
		}
		return nil, errors.Store(err, "failed to create character")
	}

	return &CreateOutput{Character: char}, nil
}

func (r *sqlRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT data FROM characters WHERE id = ?`), input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get character")
	}

	char, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: char}, nil
}

// Update writes only if the stored version still equals the version read
func (r *sqlRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Character.ID})
	if err != nil {
		return nil, err
	}

	next := input.Character.Clone()
	next.Version = input.Character.Version + 1
	next.CreatedAt = existing.Character.CreatedAt
	next.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(next)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE characters SET campaign_id = ?, user_id = ?, version = ?, data = ? WHERE id = ? AND version = ?`),
		next.CampaignID, next.UserID, next.Version, string(data), next.ID, input.Character.Version,
	)
	if err != nil {
		return nil, errors.Store(err, "failed to update character")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Store(err, "failed to update character")
	}
	if affected == 0 {
		return nil, errors.Abortedf("character %s was modified: have version %d",
			next.ID, input.Character.Version)
	}

	return &UpdateOutput{Character: next}, nil
}

func (r *sqlRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM characters WHERE id = ?`), input.ID)
	if err != nil {
		return nil, errors.Store(err, "failed to delete character")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
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

	characters, err := r.list(ctx, `SELECT data FROM characters WHERE campaign_id = ? ORDER BY created_at, id`, input.CampaignID)
	if err != nil {
		return nil, err
	}
	return &ListByCampaignIDOutput{Characters: characters}, nil
}

func (r *sqlRepository) ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	characters, err := r.list(ctx, `SELECT data FROM characters WHERE user_id = ? ORDER BY created_at, id`, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ListByUserIDOutput{Characters: characters}, nil
}

func (r *sqlRepository) list(ctx context.Context, query string, arg string) ([]*entities.Character, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), arg)
	if err != nil {
		return nil, errors.Store(err, "failed to list characters")
	}
	defer rows.Close()

	characters := []*entities.Character{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Store(err, "failed to scan character")
		}
		char, err := decode(data)
		if err != nil {
			return nil, err
		}
		characters = append(characters, char)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Store(err, "failed to list characters")
	}

	return characters, nil
}
