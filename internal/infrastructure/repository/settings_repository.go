package repository

import (
	"context"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the single shop settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.ShopSettings, error) {
	var settings entity.ShopSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the shop settings
func (r *settingsRepository) Save(ctx context.Context, settings *entity.ShopSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
