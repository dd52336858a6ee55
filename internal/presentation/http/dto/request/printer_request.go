package request

// PrintInvoiceRequest holds the print toggles of the invoice page
type PrintInvoiceRequest struct {
	ShowRate     bool  `form:"show_rate"`
	ShowDiscount bool  `form:"show_discount"`
	AutoPrint    *bool `form:"auto_print"`
	Copies       int   `form:"copies" binding:"omitempty,min=1,max=2"`
}

// UpdateSettingsRequest represents a shop settings update. Absent fields are kept.
type UpdateSettingsRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Tagline  *string `json:"tagline" binding:"omitempty,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Email    *string `json:"email" binding:"omitempty,max=255"`
	Currency *string `json:"currency" binding:"omitempty,max=10"`
}
