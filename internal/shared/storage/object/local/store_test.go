package local

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"interview-backend/internal/shared/storage/object"
)

func TestPutThenOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	key := object.TranscriptKey("guest:abc", "iv-1")

	n, err := store.Put(ctx, key, "application/json", strings.NewReader(`[{"role":"user","content":"hi"}]`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 32 {
		t.Fatalf("expected 32 bytes, got %d", n)
	}

	if _, err := store.Put(ctx, key, "application/json", strings.NewReader(`[]`)); err != nil {
		t.Fatalf("overwrite Put: %v", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected overwritten content, got %q", raw)
	}
}

func TestOpenMissingAndTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.Open(ctx, "transcripts/none.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
	if _, err := store.Open(ctx, "../secret"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := store.Put(ctx, "../secret", "text/plain", strings.NewReader("x")); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey on put, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "k.json", "application/json", strings.NewReader("{}")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
