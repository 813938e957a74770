package lifecycle

import (
	"time"

	"interview-backend/internal/domain/model"
)

// FeedbackLookup reports whether feedback exists for an interview id.
type FeedbackLookup func(interviewID string) bool

// Board splits a user's interviews into the dashboard buckets. Each input
// interview lands in exactly one bucket and every bucket keeps input order.
type Board struct {
	PendingScheduled []model.Interview `json:"pendingScheduled"`
	Missed           []model.Interview `json:"missed"`
	Completed        []model.Interview `json:"completed"`
	Takeable         []model.Interview `json:"takeable"`
}

// Len returns the number of interviews across all buckets.
func (b Board) Len() int {
	return len(b.PendingScheduled) + len(b.Missed) + len(b.Completed) + len(b.Takeable)
}

// Partition classifies every interview at now and assigns it to a bucket.
// A nil hasFeedback is treated as "no feedback anywhere".
func Partition(now time.Time, interviews []model.Interview, hasFeedback FeedbackLookup) Board {
	board := Board{
		PendingScheduled: []model.Interview{},
		Missed:           []model.Interview{},
		Completed:        []model.Interview{},
		Takeable:         []model.Interview{},
	}
	for _, iv := range interviews {
		switch ClassifyInterview(now, iv) {
		case PendingScheduled:
			board.PendingScheduled = append(board.PendingScheduled, iv)
		case MissedGracePeriod:
			board.Missed = append(board.Missed, iv)
		default:
			if isDone(iv, hasFeedback) {
				board.Completed = append(board.Completed, iv)
			} else {
				board.Takeable = append(board.Takeable, iv)
			}
		}
	}
	return board
}

// isDone applies the "your interviews" rule: completed status, an unscheduled
// ready interview, or an interview that already has feedback.
func isDone(iv model.Interview, hasFeedback FeedbackLookup) bool {
	if iv.Status == model.StatusCompleted {
		return true
	}
	if iv.Status == model.StatusReady && iv.ScheduledFor == nil {
		return true
	}
	return hasFeedback != nil && hasFeedback(iv.ID)
}
