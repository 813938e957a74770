package feedback

import (
	"context"

	"interview-backend/internal/domain/model"
)

// Repo persists feedback. There is at most one row per (interview, user).
type Repo interface {
	// Create stores fb, returning ErrAlreadyExists when the pair is already scored.
	Create(ctx context.Context, fb model.Feedback) error
	GetByInterview(ctx context.Context, interviewID, userID string) (model.Feedback, error)
	ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error)
}
