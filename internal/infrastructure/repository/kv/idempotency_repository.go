package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
)

// Idempotency keys live under their own keys and expire through the store's TTL.
type idempotencyRepository struct {
	db *DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) keyFor(key, clientID string) string {
	return r.db.key(idempotencyPrefix) + ":" + clientID + ":" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, clientID string) (*entity.IdempotencyKey, error) {
	data, err := r.db.store.Get(ctx, r.keyFor(key, clientID))
	if err != nil || data == nil {
		return nil, err
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(data, &ikey); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency key: %w", err)
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = r.db.now()

	data, err := json.Marshal(ikey)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency key: %w", err)
	}

	ttl := ikey.ExpiresAt.Sub(ikey.CreatedAt)
	if ttl <= 0 {
		return nil
	}
	return r.db.store.Set(ctx, r.keyFor(ikey.Key, ikey.ClientID), data, ttl)
}

// DeleteExpired is a no-op; the store drops keys once their TTL passes.
func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return nil
}
