package interviews

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"interview-backend/internal/domain/model"
)

// MemoryRepo stores interviews in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]model.Interview
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]model.Interview)}
}

func (r *MemoryRepo) Create(ctx context.Context, iv model.Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[iv.ID] = clone(iv)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, interviewID string) (model.Interview, error) {
	if err := ctx.Err(); err != nil {
		return model.Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.byID[interviewID]
	if !ok {
		return model.Interview{}, ErrNotFound
	}
	if iv.UserID != userID {
		return model.Interview{}, ErrForbidden
	}
	return clone(iv), nil
}

// ListByUser returns the user's interviews newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []model.Interview{}
	for _, iv := range r.byID {
		if iv.UserID == userID {
			out = append(out, clone(iv))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) MarkCompleted(ctx context.Context, userID, interviewID, transcriptKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byID[interviewID]
	if !ok {
		return ErrNotFound
	}
	if iv.UserID != userID {
		return ErrForbidden
	}
	if iv.Status == model.StatusCompleted {
		return fmt.Errorf("%w: %s", ErrNotTakeable, iv.Status)
	}
	iv.Status = model.StatusCompleted
	iv.TranscriptKey = transcriptKey
	r.byID[interviewID] = iv
	return nil
}

func (r *MemoryRepo) Reopen(ctx context.Context, userID, interviewID string, status model.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byID[interviewID]
	if !ok || iv.UserID != userID || iv.Status != model.StatusCompleted {
		return ErrNotFound
	}
	iv.Status = status
	iv.TranscriptKey = ""
	r.byID[interviewID] = iv
	return nil
}

func clone(iv model.Interview) model.Interview {
	iv.TechStack = append([]string(nil), iv.TechStack...)
	iv.Questions = append([]string(nil), iv.Questions...)
	if iv.ScheduledFor != nil {
		at := *iv.ScheduledFor
		iv.ScheduledFor = &at
	}
	return iv
}

var _ Repo = (*MemoryRepo)(nil)
