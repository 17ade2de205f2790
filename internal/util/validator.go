package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RequiredText trims s and fails when nothing is left.
func RequiredText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is empty", field)
	}
	return s, nil
}

// ValidateMaxLen 验证长度（按字符计算）
func ValidateMaxLen(field, s string, max int) error {
	if n := utf8.RuneCountInString(s); n > max {
		return fmt.Errorf("%s too long, max %d characters, got %d", field, max, n)
	}
	return nil
}
