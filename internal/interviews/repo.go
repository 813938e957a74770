package interviews

import (
	"context"

	"interview-backend/internal/domain/model"
)

// Repo defines persistence operations for interviews.
type Repo interface {
	Create(ctx context.Context, iv model.Interview) error
	GetByID(ctx context.Context, userID, interviewID string) (model.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]model.Interview, error)
	// MarkCompleted fails with ErrNotTakeable when the interview is already completed.
	MarkCompleted(ctx context.Context, userID, interviewID, transcriptKey string) error
	// Reopen undoes MarkCompleted, restoring status and clearing the transcript key.
	Reopen(ctx context.Context, userID, interviewID string, status model.Status) error
}
