package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentHash returns a short hex digest of text, used as a cache key component.
func ContentHash(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
