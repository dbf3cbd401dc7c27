package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis every repository is written against.
// redis.UniversalClient covers single, cluster and failover deployments.
type Client interface {
	redis.UniversalClient
}

// Pipeliner wraps redis.Pipeliner for batch operations
type Pipeliner interface {
	redis.Pipeliner
}

var (
	// Nil is returned by reads of a missing key
	Nil = redis.Nil

	// TxFailedErr is returned when a WATCHed key changed before EXEC
	TxFailedErr = redis.TxFailedErr
)
