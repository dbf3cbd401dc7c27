package character

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/dungeon-master/internal/redis"
)

const (
	characterKeyPrefix  = "character:"
	campaignIndexPrefix = "character:campaign:"
	userIndexPrefix     = "character:user:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use real clock if none provided
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
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

	key := characterKeyPrefix + char.ID
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to create character")
	}
	if !created {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, campaignIndexPrefix+char.CampaignID, char.ID)
	if char.UserID != "" {
		pipe.SAdd(ctx, userIndexPrefix+char.UserID, char.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to index character")
	}

	return &CreateOutput{Character: char}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get character")
	}

	char, err := decode(result)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Character: char}, nil
}

// Update compares versions under WATCH so a concurrent writer aborts the EXEC
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	key := characterKeyPrefix + input.Character.ID
	var updated *entities.Character

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		result, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("character with ID %s not found", input.Character.ID)
			}
			return errors.Store(err, "failed to get character")
		}

		existing, err := decode(result)
		if err != nil {
			return err
		}
		if existing.Version != input.Character.Version {
			return errors.Abortedf("character %s was modified: have version %d, stored version %d",
				existing.ID, input.Character.Version, existing.Version)
		}

		next := input.Character.Clone()
		next.Version = existing.Version + 1
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = r.clock.Now()

		data, err := json.Marshal(next)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal character data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if existing.CampaignID != next.CampaignID {
				pipe.SRem(ctx, campaignIndexPrefix+existing.CampaignID, next.ID)
				pipe.SAdd(ctx, campaignIndexPrefix+next.CampaignID, next.ID)
			}
			if existing.UserID != next.UserID {
				if existing.UserID != "" {
					pipe.SRem(ctx, userIndexPrefix+existing.UserID, next.ID)
				}
				if next.UserID != "" {
					pipe.SAdd(ctx, userIndexPrefix+next.UserID, next.ID)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}, key)

	switch {
	case err == nil:
		return &UpdateOutput{Character: updated}, nil
	case err == redisclient.TxFailedErr:
		return nil, errors.Abortedf("character %s was modified concurrently", input.Character.ID)
	default:
		var typed *errors.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, errors.Store(err, "failed to update character")
	}
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}
	char := getOutput.Character

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+input.ID)
	pipe.SRem(ctx, campaignIndexPrefix+char.CampaignID, input.ID)
	if char.UserID != "" {
		pipe.SRem(ctx, userIndexPrefix+char.UserID, input.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByCampaignID(
	ctx context.Context,
	input ListByCampaignIDInput,
) (*ListByCampaignIDOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	characters, err := r.listByIndex(ctx, campaignIndexPrefix+input.CampaignID)
	if err != nil {
		return nil, err
	}

	return &ListByCampaignIDOutput{Characters: characters}, nil
}

func (r *redisRepository) ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	characters, err := r.listByIndex(ctx, userIndexPrefix+input.UserID)
	if err != nil {
		return nil, err
	}

	return &ListByUserIDOutput{Characters: characters}, nil
}

// listByIndex loads every character in an index set, pruning stale ids
func (r *redisRepository) listByIndex(ctx context.Context, indexKey string) ([]*entities.Character, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Storef(err, "failed to get characters from index %s", indexKey)
	}

	characters := make([]*entities.Character, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "character not found, cleaning up index",
					"character_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get character %s", id)
		}
		characters = append(characters, out.Character)
	}

	sortCharacters(characters)
	return characters, nil
}

func decode(data string) (*entities.Character, error) {
	var char entities.Character
	if err := json.Unmarshal([]byte(data), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character data")
	}
	return &char, nil
}

func sortCharacters(characters []*entities.Character) {
	sort.SliceStable(characters, func(i, j int) bool {
		if characters[i].CreatedAt.Equal(characters[j].CreatedAt) {
			return characters[i].ID < characters[j].ID
		}
		return characters[i].CreatedAt.Before(characters[j].CreatedAt)
	})
}
