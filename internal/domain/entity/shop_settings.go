package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopSettings holds the shop identity printed at the top of every invoice.
// There is a single row.
type ShopSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Tagline  string `gorm:"size:255" json:"tagline"`
	Address  string `gorm:"type:text" json:"address"`
	Phone    string `gorm:"size:50" json:"phone"`
	Email    string `gorm:"size:255" json:"email"`
	Currency string `gorm:"size:10;default:'₹'" json:"currency"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *ShopSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShopSettings model
func (ShopSettings) TableName() string {
	return "shop_settings"
}

// ContactLine joins address, phone and email the way the invoice header prints them
func (s *ShopSettings) ContactLine() string {
	line := ""
	for _, part := range []string{s.Address, s.Phone, s.Email} {
		if part == "" {
			continue
		}
		if line != "" {
			line += " | "
		}
		line += part
	}
	return line
}
