package util

import (
	"fmt"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const uniquePrefixLength = 12

// Example output for "ex.pdf": "V1StGXR8_Z5j_ex.pdf"
func AddUniquePrefixToFileName(fileName string) (string, error) {
	prefix, err := gonanoid.New(uniquePrefixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate file prefix: %w", err)
	}
	return fmt.Sprintf("%s_%s", prefix, filepath.Base(fileName)), nil
}

// Turns a user supplied name into something safe for Content-Disposition and object keys.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)

	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
