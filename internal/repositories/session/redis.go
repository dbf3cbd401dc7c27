package session

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
	sessionKeyPrefix    = "session:"
	campaignIndexPrefix = "session:campaign:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis session repository
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

// NewRedis creates a new Redis-backed session repository
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

	created, err := r.client.SetNX(ctx, sessionKeyPrefix+s.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to create session")
	}
	if !created {
		return nil, errors.AlreadyExistsf("session with ID %s already exists", s.ID)
	}

	if err := r.client.SAdd(ctx, campaignIndexPrefix+s.CampaignID, s.ID).Err(); err != nil {
		return nil, errors.Store(err, "failed to index session")
	}

	return &CreateOutput{Session: s}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	result, err := r.client.Get(ctx, sessionKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session with ID %s not found", input.ID)
		}
		return nil, errors.Store(err, "failed to get session")
	}

	var s entities.Session
	if err := json.Unmarshal([]byte(result), &s); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &s}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
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

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+s.ID, data, 0)
	if existing.Session.CampaignID != s.CampaignID {
		pipe.SRem(ctx, campaignIndexPrefix+existing.Session.CampaignID, s.ID)
		pipe.SAdd(ctx, campaignIndexPrefix+s.CampaignID, s.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to update session")
	}

	return &UpdateOutput{Session: s}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+input.ID)
	pipe.SRem(ctx, campaignIndexPrefix+existing.Session.CampaignID, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to delete session")
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

	indexKey := campaignIndexPrefix + input.CampaignID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to list sessions")
	}

	sessions := make([]*entities.Session, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "session not found, cleaning up index",
					"session_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		sessions = append(sessions, out.Session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return &ListByCampaignIDOutput{Sessions: sessions}, nil
}
