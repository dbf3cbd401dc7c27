package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/config"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.PendingRollTTL)
	assert.Equal(t, 24*time.Hour, cfg.SRDCacheTTL)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"DM_HTTP_PORT":          "9090",
		"DM_STORE_BACKEND":      "postgres",
		"DM_DATABASE_URL":       "postgres://dm@localhost/dm?sslmode=disable",
		"DM_PENDING_ROLL_TTL":   "5m",
		"DM_ROLL_GROUPING_EXPR": `count > 1`,
		"DM_LOG_LEVEL":          "debug",
		"DM_LOG_FORMAT":         "text",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, config.BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 5*time.Minute, cfg.PendingRollTTL)
	assert.Equal(t, "count > 1", cfg.RollGroupingExpr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestFromMap_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		vars  map[string]string
		field string
	}{
		{name: "unknown backend", vars: map[string]string{"DM_STORE_BACKEND": "mongo"}, field: "DM_STORE_BACKEND"},
		{name: "postgres without url", vars: map[string]string{"DM_STORE_BACKEND": "postgres"}, field: "DM_DATABASE_URL"},
		{name: "failover without master", vars: map[string]string{"DM_REDIS_MODE": "failover"}, field: "DM_REDIS_MASTER"},
		{name: "port out of range", vars: map[string]string{"DM_HTTP_PORT": "70000"}, field: "DM_HTTP_PORT"},
		{name: "bad level", vars: map[string]string{"DM_LOG_LEVEL": "loud"}, field: "DM_LOG_LEVEL"},
		{name: "zero burst", vars: map[string]string{"DM_RATE_LIMIT_BURST": "0"}, field: "DM_RATE_LIMIT_BURST"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.FromMap(tc.vars)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestFromMap_Unparseable(t *testing.T) {
	_, err := config.FromMap(map[string]string{"DM_PENDING_ROLL_TTL": "soon"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
