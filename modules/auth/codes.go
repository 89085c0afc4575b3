package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// generateCode returns a numeric verification code of the given length,
// drawn from crypto/rand. Leading zeros are allowed, so the code is always
// exactly length digits.
func generateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for range length {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
