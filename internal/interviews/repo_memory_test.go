package interviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"interview-backend/internal/domain/model"
)

func TestMemoryRepoIsolatesCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	iv := model.Interview{ID: "iv-1", UserID: "user-1", TechStack: []string{"Go"}, Questions: []string{"Q"}, Status: model.StatusScheduled, ScheduledFor: &at}
	if err := repo.Create(ctx, iv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	iv.TechStack[0] = "Rust"
	*iv.ScheduledFor = at.Add(time.Hour)

	got, err := repo.GetByID(ctx, "user-1", "iv-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TechStack[0] != "Go" || !got.ScheduledFor.Equal(at) {
		t.Fatalf("stored interview was mutated through caller copy: %+v", got)
	}
}

func TestMemoryRepoListByUserNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	for _, iv := range []model.Interview{
		{ID: "a", UserID: "user-1", CreatedAt: base},
		{ID: "b", UserID: "user-1", CreatedAt: base.Add(time.Minute)},
		{ID: "c", UserID: "user-1", CreatedAt: base},
		{ID: "d", UserID: "user-2", CreatedAt: base.Add(time.Hour)},
	} {
		if err := repo.Create(ctx, iv); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	var ids []string
	for _, iv := range list {
		ids = append(ids, iv.ID)
	}
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "c" || ids[2] != "a" {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestMemoryRepoOwnership(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, model.Interview{ID: "iv-1", UserID: "user-1", Status: model.StatusReady}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "user-2", "iv-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.MarkCompleted(ctx, "user-2", "iv-1", "k"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.MarkCompleted(ctx, "user-1", "missing", "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.MarkCompleted(ctx, "user-1", "iv-1", "k"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	got, _ := repo.GetByID(ctx, "user-1", "iv-1")
	if got.Status != model.StatusCompleted || got.TranscriptKey != "k" {
		t.Fatalf("unexpected interview %+v", got)
	}
}

func TestMemoryRepoCompletesOnceAndReopens(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, model.Interview{ID: "iv-1", UserID: "user-1", Status: model.StatusScheduled}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Reopen(ctx, "user-1", "iv-1", model.StatusScheduled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound reopening an open interview, got %v", err)
	}
	if err := repo.MarkCompleted(ctx, "user-1", "iv-1", "k"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := repo.MarkCompleted(ctx, "user-1", "iv-1", "k"); !errors.Is(err, ErrNotTakeable) {
		t.Fatalf("expected ErrNotTakeable on second completion, got %v", err)
	}

	if err := repo.Reopen(ctx, "user-2", "iv-1", model.StatusScheduled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}
	if err := repo.Reopen(ctx, "user-1", "iv-1", model.StatusScheduled); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	got, _ := repo.GetByID(ctx, "user-1", "iv-1")
	if got.Status != model.StatusScheduled || got.TranscriptKey != "" {
		t.Fatalf("unexpected interview after reopen %+v", got)
	}
}
