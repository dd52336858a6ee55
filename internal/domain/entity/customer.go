package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Customer represents a shop customer
type Customer struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Name      string                      `gorm:"size:255;not null;index" json:"name"`
	Phones    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"phone"`
	Address   string                      `gorm:"type:text" json:"address"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"-"`

	// Aggregates filled by the repository on read
	TotalBills int64   `gorm:"->;-:migration" json:"total_bills"`
	TotalDues  float64 `gorm:"->;-:migration" json:"total_dues"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// HasDues reports whether the customer still owes money on any bill
func (c *Customer) HasDues() bool {
	return c.TotalDues > 0
}

// PrimaryPhone returns the first phone number, or an empty string
func (c *Customer) PrimaryPhone() string {
	if len(c.Phones) == 0 {
		return ""
	}
	return c.Phones[0]
}
