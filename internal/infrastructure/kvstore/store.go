// Package kvstore holds the byte-level key-value stores behind the
// key-value repository backend.
package kvstore

import (
	"context"
	"time"
)

// Store is a minimal key-value store. Get returns nil, nil on a miss.
// A zero ttl keeps the key forever.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
