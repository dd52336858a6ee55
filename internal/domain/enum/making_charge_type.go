package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MakingChargeType records how the making charge on an item was quoted.
// Only the fixed amount is applied when pricing a line; the other types are kept for display.
type MakingChargeType string

const (
	MakingChargeFixed      MakingChargeType = "FIXED"
	MakingChargePerGram    MakingChargeType = "PER_GRAM"
	MakingChargePercentage MakingChargeType = "PERCENTAGE"
)

func ParseMakingChargeType(s string) (MakingChargeType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FIXED":
		return MakingChargeFixed, nil
	case "PER_GRAM", "PERGRAM":
		return MakingChargePerGram, nil
	case "PERCENTAGE", "PERCENT":
		return MakingChargePercentage, nil
	}
	return "", fmt.Errorf("unknown making charge type %q", s)
}

func (t MakingChargeType) String() string {
	return string(t)
}

func (t MakingChargeType) MarshalJSON() ([]byte, error) {
	if t == "" {
		t = MakingChargeFixed
	}
	return json.Marshal(string(t))
}

func (t *MakingChargeType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseMakingChargeType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t MakingChargeType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *MakingChargeType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = MakingChargeFixed
	case string:
		*t = MakingChargeType(v)
	case []byte:
		*t = MakingChargeType(v)
	}
	return nil
}
