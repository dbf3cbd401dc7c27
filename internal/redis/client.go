// Package redis wraps the go-redis client so repositories depend on a small
// interface and tests can swap in miniredis
package redis

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deployment modes accepted by New
const (
	ModeSingle   = "single"
	ModeCluster  = "cluster"
	ModeFailover = "failover"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
	ReadOnly        bool // For cluster mode routing
}

// Config selects a deployment mode and its endpoints
type Config struct {
	Mode string
	// Addrs is a comma separated endpoint list; sentinels in failover mode
	Addrs      string
	MasterName string
	Options    *Options
}

// New creates a client for the configured deployment mode
func New(cfg Config) (Client, error) {
	addrs := splitAddrs(cfg.Addrs)

	switch strings.ToLower(cfg.Mode) {
	case "", ModeSingle:
		if len(addrs) == 0 {
			return nil, errors.New("redis: endpoint is required")
		}
		return NewClient(addrs[0], cfg.Options)
	case ModeCluster:
		return NewClusterClient(addrs, cfg.Options)
	case ModeFailover:
		return NewFailoverClient(cfg.MasterName, addrs, cfg.Options)
	default:
		return nil, fmt.Errorf("redis: unknown mode %q", cfg.Mode)
	}
}

// NewClient creates a Redis client for a single instance
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClient(redisOpts), nil
}

// NewClusterClient creates a Redis client for cluster mode
func NewClusterClient(endpoints []string, opts *Options) (Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("redis: at least one endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	clusterOpts := &redis.ClusterOptions{
		Addrs:        endpoints,
		MinIdleConns: opts.MinIdleConns,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
		ReadOnly:     opts.ReadOnly,
	}

	if opts.UseTLS {
		clusterOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClusterClient(clusterOpts), nil
}

// NewFailoverClient creates a Redis client with Sentinel support
func NewFailoverClient(masterName string, sentinelAddrs []string, opts *Options) (Client, error) {
	if masterName == "" {
		return nil, errors.New("redis: master name is required")
	}
	if len(sentinelAddrs) == 0 {
		return nil, errors.New("redis: at least one sentinel address is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	failoverOpts := &redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		MinIdleConns:  opts.MinIdleConns,
		PoolSize:      opts.PoolSize,
		MaxRetries:    opts.MaxRetries,
	}

	if opts.UseTLS {
		failoverOpts.TLSConfig = tlsConfig()
	}

	return redis.NewFailoverClient(failoverOpts), nil
}

func tlsConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true, // #nosec G402 -- managed Redis with self-signed certs
	}
}

func splitAddrs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
