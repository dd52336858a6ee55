package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMode represents how a payment against a bill was settled
type PaymentMode string

const (
	PaymentModeCash     PaymentMode = "CASH"
	PaymentModeOnline   PaymentMode = "ONLINE"
	PaymentModeDiscount PaymentMode = "DISCOUNT"
)

// ParsePaymentMode accepts any casing of a known mode. An empty string maps to CASH.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CASH":
		return PaymentModeCash, nil
	case "ONLINE":
		return PaymentModeOnline, nil
	case "DISCOUNT":
		return PaymentModeDiscount, nil
	}
	return "", fmt.Errorf("unknown payment mode %q", s)
}

func (m PaymentMode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeOnline, PaymentModeDiscount:
		return true
	}
	return false
}

// RequiresReference reports whether a payment in this mode carries a reference id
func (m PaymentMode) RequiresReference() bool {
	return m == PaymentModeOnline
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMode(v)
	case []byte:
		*m = PaymentMode(v)
	}
	return nil
}
