package cardrules

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateTestNumber builds a Luhn valid number of the given length that
// starts with prefix. It is meant for fixtures and demo carts, not issuing.
func GenerateTestNumber(prefix string, length int) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("prefix is required")
	}
	if !IsDigits(prefix) {
		return "", fmt.Errorf("prefix must contain digits only")
	}
	if length < minDigits || length > 19 {
		return "", fmt.Errorf("length must be %d..19 (got %d)", minDigits, length)
	}
	fill := length - 1 - len(prefix)
	if fill < 0 {
		return "", fmt.Errorf("prefix too long for length %d: %s", length, prefix)
	}

	body, err := randomDigits(fill)
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body = prefix + body
	return body + string(luhnCheckDigit(body)), nil
}

// randomDigits uses rejection sampling so every digit is equally likely.
func randomDigits(count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	const threshold = 250 // 256 - (256 % 10)
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 32)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + buf[i]%10)
			}
		}
	}
	return sb.String(), nil
}
