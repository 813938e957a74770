package lifecycle

import (
	"fmt"
	"time"

	"interview-backend/internal/domain/model"
)

// Action is what the detail view offers the user.
type Action string

const (
	ActionStart        Action = "start"
	ActionViewFeedback Action = "view_feedback"
	ActionWait         Action = "wait"
)

// Detail is the projection behind the single-interview view.
type Detail struct {
	State            State         `json:"state"`
	QuestionsVisible bool          `json:"questionsVisible"`
	StartsIn         time.Duration `json:"-"`
	StartsInLabel    string        `json:"startsIn,omitempty"`
	MissedWarning    bool          `json:"missedWarning"`
	HasFeedback      bool          `json:"hasFeedback"`
	Action           Action        `json:"action"`
}

// Describe builds the detail projection for iv at now.
func Describe(now time.Time, iv model.Interview, hasFeedback bool) Detail {
	state := Resolve(now, iv, hasFeedback)
	d := Detail{
		State:            state,
		QuestionsVisible: state != PendingScheduled,
		MissedWarning:    state == MissedGracePeriod,
		HasFeedback:      hasFeedback,
		Action:           ActionStart,
	}
	switch {
	case state == PendingScheduled:
		d.StartsIn = iv.ScheduledFor.Sub(now)
		d.StartsInLabel = StartsInLabel(d.StartsIn)
		d.Action = ActionWait
	case hasFeedback:
		d.Action = ActionViewFeedback
	}
	return d
}

// StartsInLabel renders a countdown in whole minutes, switching to hours once
// more than an hour remains.
func StartsInLabel(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 60 {
		return fmt.Sprintf("Starts in %d hours %d minutes", minutes/60, minutes%60)
	}
	return fmt.Sprintf("Starts in %d minutes", minutes)
}
