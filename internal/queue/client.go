package queue

import (
	"context"
	"fmt"
	"time"

	"interview-backend/internal/shared/telemetry"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Handler consumes a single message.
type Handler func(ctx context.Context, msg Message) error

// InProcess runs each message on its own goroutine in this process. It stands
// in for SQS when no queue is configured.
type InProcess struct {
	Handle  Handler
	Timeout time.Duration
}

// Send starts handling msg and returns immediately. Failures are logged.
func (q *InProcess) Send(ctx context.Context, msg Message) error {
	if q == nil || q.Handle == nil {
		return fmt.Errorf("in-process queue has no handler")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	timeout := q.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	go func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := q.Handle(jobCtx, msg); err != nil {
			telemetry.Error("queue.inprocess_failed", map[string]any{
				"interview_id": msg.InterviewID,
				"request_id":   msg.RequestID,
				"error":        err.Error(),
			})
		}
	}()
	return nil
}

var _ Client = (*InProcess)(nil)
