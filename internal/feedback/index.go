package feedback

import (
	"context"
	"errors"

	"interview-backend/internal/interviews"
)

// Index answers feedback-presence questions for the interview lifecycle.
type Index struct {
	Repo Repo
}

func (i Index) Exists(ctx context.Context, userID, interviewID string) (bool, error) {
	_, err := i.Repo.GetByInterview(ctx, interviewID, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (i Index) ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error) {
	return i.Repo.ScoredInterviewIDs(ctx, userID)
}

var _ interviews.FeedbackIndex = Index{}
