package utils

import (
	"crypto/rand"
	"strings"
)

// GenerateCode returns a short uppercase share code of the given
// length, drawn from a charset without easily confused characters.
func GenerateCode(length int) (string, error) {
	const charset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	code := make([]byte, length)
	if _, err := rand.Read(code); err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(charset[int(code[i])%len(charset)])
	}

	return b.String(), nil
}
