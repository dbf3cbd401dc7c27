package message

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/dungeon-master/internal/redis"
)

// Key pattern: message:session:{session_id} holds a list in append order
const sessionLogPrefix = "message:session:"

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis message repository
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

// NewRedis creates a new Redis-backed message repository
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

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
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

	if err := r.client.RPush(ctx, sessionLogPrefix+m.SessionID, data).Err(); err != nil {
		return nil, errors.Store(err, "failed to append message")
	}

	return &AppendOutput{Message: &m}, nil
}

func (r *redisRepository) ListBySessionID(
	ctx context.Context,
	input ListBySessionIDInput,
) (*ListBySessionIDOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	start := int64(0)
	if input.Limit > 0 {
		start = -int64(input.Limit)
	}

	items, err := r.client.LRange(ctx, sessionLogPrefix+input.SessionID, start, -1).Result()
	if err != nil {
		return nil, errors.Store(err, "failed to list messages")
	}

	messages := make([]*entities.Message, 0, len(items))
	for _, item := range items {
		var m entities.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal message")
		}
		messages = append(messages, &m)
	}

	return &ListBySessionIDOutput{Messages: messages}, nil
}

func (r *redisRepository) DeleteBySessionID(
	ctx context.Context,
	input DeleteBySessionIDInput,
) (*DeleteBySessionIDOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := sessionLogPrefix + input.SessionID
	pipe := r.client.TxPipeline()
	count := pipe.LLen(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Store(err, "failed to delete messages")
	}

	return &DeleteBySessionIDOutput{MessagesDeleted: int(count.Val())}, nil
}
