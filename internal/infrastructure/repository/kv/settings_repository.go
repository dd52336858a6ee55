package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
)

type settingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.ShopSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	data, err := r.db.store.Get(ctx, r.db.key(settingsCollection))
	if err != nil || data == nil {
		return nil, err
	}

	var settings entity.ShopSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *entity.ShopSettings) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.db.store.Set(ctx, r.db.key(settingsCollection), data, 0)
}
