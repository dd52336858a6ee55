package utils

import (
	"regexp"
	"testing"
)

func TestGenerateReferenceNo(t *testing.T) {
	tests := []struct {
		prefix string
		n      int
		want   *regexp.Regexp
	}{
		{"KA-", 6, regexp.MustCompile(`^KA-[0-9A-F]{6}$`)},
		{"", 8, regexp.MustCompile(`^[0-9A-F]{8}$`)},
		{"X", 0, regexp.MustCompile(`^X[0-9A-F]{32}$`)},
		{"X", 99, regexp.MustCompile(`^X[0-9A-F]{32}$`)},
	}
	for _, tt := range tests {
		got := GenerateReferenceNo(tt.prefix, tt.n)
		if !tt.want.MatchString(got) {
			t.Errorf("GenerateReferenceNo(%q, %d) = %q", tt.prefix, tt.n, got)
		}
	}
}

func TestParseUUIDTrims(t *testing.T) {
	if _, err := ParseUUID(" 7f1c1a4e-5f7e-4c1b-9d55-6a6d2b0c9e11 "); err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if _, err := ParseUUID("KA-123"); err == nil {
		t.Fatal("expected an error")
	}
}
