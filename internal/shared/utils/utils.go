package utils

import (
	"os"
	"strings"
)

// GetEnvVariable reads an env var with a fallback default.
func GetEnvVariable(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// TrimToNil trims a string pointer; empty-after-trim becomes nil.
// Used by normalizers where empty optional strings must not persist as "".
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
