package entity

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	Tagline   string `json:"tagline,omitempty"`
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name        string  `json:"name"`
	WeightGrams float64 `json:"weight_grams"`
	Making      float64 `json:"making"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// ReceiptPayment is a payment line on a receipt.
type ReceiptPayment struct {
	Date   string  `json:"date"`
	Mode   string  `json:"mode"`
	Amount float64 `json:"amount"`
}

// Receipt is a value object representing a printable thermal receipt.
// It is composed from a bill at print time and never stored.
type Receipt struct {
	Header   ReceiptHeader    `json:"header"`
	BillNo   string           `json:"bill_no"`
	Date     string           `json:"date"`
	Customer string           `json:"customer,omitempty"`
	Phone    string           `json:"phone,omitempty"`
	Currency string           `json:"currency"`
	Items    []ReceiptItem    `json:"items"`
	Payments []ReceiptPayment `json:"payments"`
	Total    float64          `json:"total"`
	Paid     float64          `json:"paid"`
	Due      float64          `json:"due"`
}
