package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// GenerateReferenceNo returns prefix followed by n upper-case hex characters
// taken from a fresh UUID. n is capped at 32.
func GenerateReferenceNo(prefix string, n int) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > 0 && n < len(token) {
		token = token[:n]
	}
	return prefix + token
}
