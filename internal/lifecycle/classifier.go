// Package lifecycle derives the presentation state of an interview from its
// persisted status, its optional schedule and the current time.
//
// Every function here is pure: callers pass now explicitly and nothing is read
// from the wall clock or from storage. List and detail views must both go
// through this package so an interview is never "missed" in one place and
// "ready" in another.
package lifecycle

import (
	"time"

	"interview-backend/internal/domain/model"
)

// Grace is how long after its scheduled time an interview can still be started
// before it counts as missed.
const Grace = 5 * time.Minute

// State is the derived, never persisted, lifecycle state of an interview.
type State string

const (
	// Available interviews are not under schedule control and can be taken any time.
	Available State = "available"
	// PendingScheduled interviews are scheduled for a time that has not arrived.
	PendingScheduled State = "pending_scheduled"
	// ReadyToStart interviews reached their scheduled time less than Grace ago.
	ReadyToStart State = "ready_to_start"
	// MissedGracePeriod interviews were not started within Grace of their time.
	// They can still be taken.
	MissedGracePeriod State = "missed_grace_period"
	// Completed is a refinement applied on top of Classify when the interview was
	// completed or already has feedback. Classify itself never returns it.
	Completed State = "completed"
)

// Classify returns the lifecycle state for the given status and schedule at now.
//
// The grace window is half-open: scheduledFor == now is ReadyToStart and
// scheduledFor == now-Grace is MissedGracePeriod.
func Classify(now time.Time, status model.Status, scheduledFor *time.Time) State {
	if status != model.StatusScheduled || scheduledFor == nil {
		return Available
	}
	delta := scheduledFor.Sub(now)
	switch {
	case delta > 0:
		return PendingScheduled
	case delta > -Grace:
		return ReadyToStart
	default:
		return MissedGracePeriod
	}
}

// ClassifyInterview is Classify applied to an interview record.
func ClassifyInterview(now time.Time, iv model.Interview) State {
	return Classify(now, iv.Status, iv.ScheduledFor)
}

// Resolve classifies iv and refines Available and ReadyToStart to Completed
// when the interview is completed or has feedback.
func Resolve(now time.Time, iv model.Interview, hasFeedback bool) State {
	state := ClassifyInterview(now, iv)
	switch state {
	case Available, ReadyToStart:
		if iv.Status == model.StatusCompleted || hasFeedback {
			return Completed
		}
	}
	return state
}

// Takeable reports whether an interview in state s may be started now.
// Missed interviews stay recoverable.
func (s State) Takeable() bool {
	switch s {
	case Available, ReadyToStart, MissedGracePeriod:
		return true
	default:
		return false
	}
}
