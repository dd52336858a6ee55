package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string    `json:"name" binding:"required,max=255"`
	Phone   PhoneList `json:"phone"`
	Address string    `json:"address" binding:"max=1000"`
}

// UpdateCustomerRequest represents a customer update request. Absent fields are kept.
type UpdateCustomerRequest struct {
	Name    *string    `json:"name" binding:"omitempty,max=255"`
	Phone   *PhoneList `json:"phone"`
	Address *string    `json:"address" binding:"omitempty,max=1000"`
}

// CustomerListRequest represents customer list query parameters
type CustomerListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Query string `form:"query"`
}
