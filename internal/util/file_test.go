package util

import (
	"strings"
	"testing"
)

func TestAddUniquePrefixToFileName(t *testing.T) {
	filename := "card.pdf"
	result, err := AddUniquePrefixToFileName(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(result, "_card.pdf") {
		t.Errorf("Expected filename to have unique prefix, got %s", result)
	}

	prefix := strings.TrimSuffix(result, "_card.pdf")
	if len(prefix) != uniquePrefixLength {
		t.Errorf("Expected a %d char prefix, got %q", uniquePrefixLength, prefix)
	}

	other, _ := AddUniquePrefixToFileName(filename)
	if other == result {
		t.Errorf("Expected unique names, got %s twice", result)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SON_Edited_Card.pdf", "SON_Edited_Card.pdf"},
		{"my card.pdf", "my_card.pdf"},
		{"../../etc/passwd", "passwd"},
		{"\"quoted\".pdf", "quoted.pdf"},
		{"", "file"},
		{"..", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
