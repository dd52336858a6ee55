package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bill is an invoice for a customer. Items and payments are embedded and
// not addressable on their own.
type Bill struct {
	ID          string                        `gorm:"size:32;primaryKey" json:"id"`
	CustomerID  uuid.UUID                     `gorm:"type:uuid;not null;index" json:"customer_id"`
	BillDate    time.Time                     `gorm:"type:date;not null;index" json:"bill_date"`
	Items       datatypes.JSONSlice[BillItem] `gorm:"type:jsonb" json:"items"`
	Payments    datatypes.JSONSlice[Payment]  `gorm:"type:jsonb" json:"payments"`
	TotalAmount float64                       `gorm:"type:numeric(14,2);default:0" json:"total_amount"`
	TotalPaid   float64                       `gorm:"type:numeric(14,2);default:0" json:"total_paid"`
	BalanceDue  float64                       `gorm:"type:numeric(14,2);default:0;index" json:"balance_due"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// LastPaymentDate returns the date of the most recent payment, or the bill
// date when nothing has been paid.
func (b *Bill) LastPaymentDate() time.Time {
	last := b.BillDate
	for _, p := range b.Payments {
		if p.Date.After(last) {
			last = p.Date
		}
	}
	return last
}

// BillItem is a single priced line on a bill
type BillItem struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	WeightGrams      float64               `json:"weight_grams"`
	RatePer10g       float64               `json:"rate_per_10g"`
	MakingCharge     float64               `json:"making_charge"`
	MakingChargeType enum.MakingChargeType `json:"making_charge_type"`
	Discount         float64               `json:"discount"`
	TotalPrice       float64               `json:"total_price"`
}

// Payment is an amount settled against a bill
type Payment struct {
	ID          string           `json:"id"`
	Amount      float64          `json:"amount"`
	Mode        enum.PaymentMode `json:"mode"`
	Date        time.Time        `json:"date"`
	ReferenceID string           `json:"reference_id,omitempty"`
}
