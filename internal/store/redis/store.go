// Package redis persists the console's two durable bits of client state:
// search history and session tokens. Everything else the console holds is
// a cache of upstream data and lives in memory.
package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for search history and sessions
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
