package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/knagata/task-reminder-api/internal/constants"
)

const suffixDigits = "23456789"

// GenerateShortCode generates a random user short code of the given length
// drawn from the restricted alphabet (no 0/O/1/I/L).
func GenerateShortCode(length int) (string, error) {
	return randomString(constants.ShortCodeAlphabet, length)
}

// GenerateShortCodeWithSuffix generates a shorter random code padded with a
// two-digit suffix. Used as the fallback when repeated collision checks
// against the identity store keep failing.
func GenerateShortCodeWithSuffix(length int) (string, error) {
	base, err := randomString(constants.ShortCodeAlphabet, length-2)
	if err != nil {
		return "", err
	}

	suffix, err := randomString(suffixDigits, 2)
	if err != nil {
		return "", err
	}

	return base + suffix, nil
}

// IsValidShortCode reports whether s has the short-code shape: exactly
// ShortCodeLength characters, all from the restricted alphabet.
func IsValidShortCode(s string) bool {
	if len(s) != constants.ShortCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.Contains(constants.ShortCodeAlphabet, string(s[i])) {
			return false
		}
	}
	return true
}

func randomString(alphabet string, length int) (string, error) {
	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}

	return b.String(), nil
}
