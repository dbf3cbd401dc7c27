package pendingroll

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/dungeon-master/internal/redis"
)

const (
	// Key patterns: pending_roll:{session_id}, pending_roll:request:{session_id}:{request_id}
	setKeyPrefix     = "pending_roll:"
	requestKeyPrefix = "pending_roll:request:"

	// DefaultTTL bounds how long an unresolved set survives
	DefaultTTL = 15 * time.Minute

	// Error messages
	errSetNil         = "roll set cannot be nil"
	errSessionIDEmpty = "session ID cannot be empty"
	errRequestIDEmpty = "request ID cannot be empty"
	errUpdateFnNil    = "update function cannot be nil"

	// maxUpdateAttempts bounds retries when concurrent results race on one set
	maxUpdateAttempts = 5
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for pending roll sets
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Set == nil {
		return nil, errors.InvalidArgument(errSetNil)
	}
	if input.Set.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	set := *input.Set
	set.CreatedAt = now
	set.ExpiresAt = now.Add(ttl)

	data, err := json.Marshal(&set)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roll set")
	}

	if err := r.client.Set(ctx, r.setKey(set.SessionID), data, ttl).Err(); err != nil {
		return nil, errors.Store(err, "failed to store roll set in Redis")
	}

	return &CreateOutput{Set: &set}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.setKey(input.SessionID)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no open roll set for session %s", input.SessionID)
		}
		return nil, errors.Store(err, "failed to get roll set from Redis")
	}

	var set PendingRollSet
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal roll set")
	}

	// the stored expiry is authoritative even if the key outlived it
	if r.clock.Now().After(set.ExpiresAt) {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			slog.WarnContext(ctx, "failed to delete expired roll set",
				"session_id", input.SessionID,
				"error", err.Error())
		}
		return nil, errors.NotFoundf("roll set for session %s has expired", input.SessionID)
	}

	return &GetOutput{Set: &set}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Fn == nil {
		return nil, errors.InvalidArgument(errUpdateFnNil)
	}

	key := r.setKey(input.SessionID)
	var out *UpdateOutput

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("no open roll set for session %s", input.SessionID)
			}
			return errors.Store(err, "failed to get roll set from Redis")
		}

		var set PendingRollSet
		if err := json.Unmarshal([]byte(data), &set); err != nil {
			return errors.Wrapf(err, "failed to unmarshal roll set")
		}

		now := r.clock.Now()
		if now.After(set.ExpiresAt) {
			return errors.NotFoundf("roll set for session %s has expired", input.SessionID)
		}

		changed, err := input.Fn(&set)
		if err != nil {
			return err
		}
		if !changed {
			out = &UpdateOutput{Set: &set}
			return nil
		}

		next, err := json.Marshal(&set)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal roll set")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, set.ExpiresAt.Sub(now))
			return nil
		})
		if err != nil {
			return err
		}

		out = &UpdateOutput{Set: &set, Updated: true}
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return out, nil
		case err == redisclient.TxFailedErr:
			continue
		default:
			var typed *errors.Error
			if errors.As(err, &typed) {
				return nil, err
			}
			return nil, errors.Store(err, "failed to update roll set in Redis")
		}
	}

	return nil, errors.Abortedf("roll set for session %s kept changing, giving up after %d attempts",
		input.SessionID, maxUpdateAttempts)
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var rollsDeleted int
	if out, err := r.Get(ctx, GetInput(input)); err == nil {
		rollsDeleted = len(out.Set.Rolls)
	}

	if err := r.client.Del(ctx, r.setKey(input.SessionID)).Err(); err != nil {
		return nil, errors.Store(err, "failed to delete roll set from Redis")
	}

	return &DeleteOutput{RollsDeleted: rollsDeleted}, nil
}

func (r *redisRepository) ClaimRequest(ctx context.Context, input ClaimRequestInput) (*ClaimRequestOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.RequestID == "" {
		return nil, errors.InvalidArgument(errRequestIDEmpty)
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	key := r.requestKey(input.SessionID, input.RequestID)
	claimed, err := r.client.SetNX(ctx, key, r.clock.Now().Unix(), ttl).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to record request id")
	}

	return &ClaimRequestOutput{Claimed: claimed}, nil
}

func (r *redisRepository) ReleaseRequest(ctx context.Context, input ReleaseRequestInput) error {
	if input.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.RequestID == "" {
		return errors.InvalidArgument(errRequestIDEmpty)
	}

	if err := r.client.Del(ctx, r.requestKey(input.SessionID, input.RequestID)).Err(); err != nil {
		return errors.Store(err, "failed to release request id")
	}
	return nil
}

// setKey creates the Redis key for a session's roll set
func (r *redisRepository) setKey(sessionID string) string {
	return setKeyPrefix + sessionID
}

// requestKey creates the Redis key for a processed request id
func (r *redisRepository) requestKey(sessionID, requestID string) string {
	return fmt.Sprintf("%s%s:%s", requestKeyPrefix, sessionID, requestID)
}
