package campaign

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
	campaignKeyPrefix = "campaign:"
	userIndexPrefix   = "campaign:user:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis campaign repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed campaign repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
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

	created, err := r.client.SetNX(ctx, campaignKeyPrefix+c.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to create campaign")
	}
	if !created {
		return nil, errors.AlreadyExistsf("campaign with ID %s already exists", c.ID)
	}

	if err := r.client.SAdd(ctx, userIndexPrefix+c.UserID, c.ID).Err(); err != nil {
		return nil, errors.Store(err, "failed to index campaign")
	}

	return &CreateOutput{Campaign: &c}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	result, err := r.client.Get(ctx, campaignKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("campaign with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get campaign")
	}

	var c entities.Campaign
	if err := json.Unmarshal([]byte(result), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal campaign")
	}

	return &GetOutput{Campaign: &c}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
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

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, campaignKeyPrefix+c.ID, data, 0)
	if existing.Campaign.UserID != c.UserID {
		pipe.SRem(ctx, userIndexPrefix+existing.Campaign.UserID, c.ID)
		pipe.SAdd(ctx, userIndexPrefix+c.UserID, c.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to update campaign")
	}

	return &UpdateOutput{Campaign: &c}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, campaignKeyPrefix+input.ID)
	pipe.SRem(ctx, userIndexPrefix+existing.Campaign.UserID, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to delete campaign")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	indexKey := userIndexPrefix + input.UserID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to list campaigns")
	}

	campaigns := make([]*entities.Campaign, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "campaign not found, cleaning up index",
					"campaign_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		campaigns = append(campaigns, out.Campaign)
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		if campaigns[i].CreatedAt.Equal(campaigns[j].CreatedAt) {
			return campaigns[i].ID < campaigns[j].ID
		}
		return campaigns[i].CreatedAt.Before(campaigns[j].CreatedAt)
	})

	return &ListByUserIDOutput{Campaigns: campaigns}, nil
}
