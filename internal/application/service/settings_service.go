package service

import (
	"context"
	"strings"

	"github.com/sangkips/alankar-api/internal/config"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/pkg/apperror"
)

// SettingsService handles shop settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     config.ShopConfig
}

// NewSettingsService creates a new settings service. defaults seed the
// settings the first time they are read.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults config.ShopConfig) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetSettings retrieves the shop settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.ShopSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.ShopSettings{
			Name:     s.defaults.Name,
			Tagline:  s.defaults.Tagline,
			Address:  s.defaults.Address,
			Phone:    s.defaults.Phone,
			Email:    s.defaults.Email,
			Currency: s.defaults.Currency,
		}
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings. Nil fields are kept.
type UpdateSettingsInput struct {
	Name     *string
	Tagline  *string
	Address  *string
	Phone    *string
	Email    *string
	Currency *string
}

// UpdateSettings updates the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "name", Message: "Shop name is required"},
			})
		}
		settings.Name = name
	}
	if input.Tagline != nil {
		settings.Tagline = strings.TrimSpace(*input.Tagline)
	}
	if input.Address != nil {
		settings.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		settings.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		settings.Email = strings.TrimSpace(*input.Email)
	}
	if input.Currency != nil && strings.TrimSpace(*input.Currency) != "" {
		settings.Currency = strings.TrimSpace(*input.Currency)
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
