package feedback

import (
	"context"
	"sync"

	"interview-backend/internal/domain/model"
)

type pairKey struct {
	interviewID string
	userID      string
}

// MemoryRepo keeps feedback in memory for local development.
type MemoryRepo struct {
	mu     sync.RWMutex
	byPair map[pairKey]model.Feedback
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byPair: make(map[pairKey]model.Feedback)}
}

func (r *MemoryRepo) Create(ctx context.Context, fb model.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := pairKey{interviewID: fb.InterviewID, userID: fb.UserID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPair[key]; ok {
		return ErrAlreadyExists
	}
	r.byPair[key] = cloneFeedback(fb)
	return nil
}

func (r *MemoryRepo) GetByInterview(ctx context.Context, interviewID, userID string) (model.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return model.Feedback{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.byPair[pairKey{interviewID: interviewID, userID: userID}]
	if !ok {
		return model.Feedback{}, ErrNotFound
	}
	return cloneFeedback(fb), nil
}

func (r *MemoryRepo) ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool)
	for key := range r.byPair {
		if key.userID == userID {
			out[key.interviewID] = true
		}
	}
	return out, nil
}

func cloneFeedback(fb model.Feedback) model.Feedback {
	fb.CategoryScores = append([]model.CategoryScore(nil), fb.CategoryScores...)
	fb.Strengths = append([]string(nil), fb.Strengths...)
	fb.AreasForImprovement = append([]string(nil), fb.AreasForImprovement...)
	return fb
}

var _ Repo = (*MemoryRepo)(nil)
