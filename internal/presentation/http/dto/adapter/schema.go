// Package adapter translates the bill payload shapes older clients send into
// the canonical request, and canonical bills back into those shapes.
package adapter

import (
	"fmt"
	"strings"
)

// HeaderSchemaVersion selects the payload shape of a request and its response
const HeaderSchemaVersion = "X-Schema-Version"

// SchemaVersion names a payload shape
type SchemaVersion string

const (
	// Canonical is the snake_case shape of this API
	Canonical SchemaVersion = "canonical"
	// V1 is the camelCase shape of the legacy backend (_id, weightInGrams, amountPaid, balanceDues)
	V1 SchemaVersion = "v1"
	// V2 is the shape of the browser-storage variant (id, weight, rate, amount)
	V2 SchemaVersion = "v2"
)

// ParseSchemaVersion reads the header value. Empty means canonical.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	switch v := SchemaVersion(strings.ToLower(strings.TrimSpace(s))); v {
	case "", Canonical:
		return Canonical, nil
	case V1, V2:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported schema version %q", s)
	}
}
