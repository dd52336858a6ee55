package repository

import (
	"context"

	"github.com/sangkips/alankar-api/internal/domain/entity"
)

// SettingsRepository defines the interface for shop settings data access
type SettingsRepository interface {
	// Get returns the stored settings, or nil when none were saved yet
	Get(ctx context.Context) (*entity.ShopSettings, error)
	Save(ctx context.Context, settings *entity.ShopSettings) error
}
