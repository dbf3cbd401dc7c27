package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/redis"
)

func TestNew_Single(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.New(redis.Config{Addrs: " " + mr.Addr() + " "})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNew_Errors(t *testing.T) {
	_, err := redis.New(redis.Config{})
	assert.Error(t, err)

	_, err = redis.New(redis.Config{Mode: "failover", Addrs: "localhost:26379"})
	assert.Error(t, err, "master name is required")

	_, err = redis.New(redis.Config{Mode: "cluster"})
	assert.Error(t, err)

	_, err = redis.New(redis.Config{Mode: "ring", Addrs: "localhost:6379"})
	assert.Error(t, err)
}

func TestNew_Cluster(t *testing.T) {
	client, err := redis.New(redis.Config{Mode: "cluster", Addrs: "a:7000,b:7001"})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
