package textutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText generates a prefixed SHA-256 digest of the normalized input.
// Two texts that normalize identically hash identically, so the digest is
// stable under casing, whitespace, and tracking-parameter differences.
func HashText(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(Normalize(input)))
	return "sha256:" + hex.EncodeToString(hasher.Sum(nil))
}
