package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"interview-backend/internal/shared/util"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves blobs by key.
type ObjectStore interface {
	Put(ctx context.Context, storageKey, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// TranscriptKey is the storage key of an interview transcript. The user ID is
// hashed so keys never carry raw identities.
func TranscriptKey(userID, interviewID string) string {
	return path.Join("transcripts", util.HashUserKey(userID), interviewID+".json")
}

// CleanKey normalizes a storage key and rejects traversal.
func CleanKey(storageKey string) (string, error) {
	clean := path.Clean(strings.TrimSpace(storageKey))
	if clean == "." || clean == "" || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
