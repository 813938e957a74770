package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey turns a user id such as "google:123" or "guest:abc" into the
// hex segment used in object storage keys. Transcripts are stored under it so
// bucket listings never show raw identities.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
