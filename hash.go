package mdpress

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentID returns the stable identity of a source file: the SHA-256 digest
// of its exact raw bytes, hex encoded. The digest doubles as the public
// direct-link token, so it must never be derived from anything but content.
func ContentID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
