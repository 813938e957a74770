package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"interview-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// Provider generates questions and scores transcripts.
type Provider interface {
	QuestionGenerator
	FeedbackScorer
}

// Retrying retries a provider call once after a short delay when the first
// attempt fails with a transient error.
type Retrying struct {
	Base  Provider
	Delay time.Duration
}

// WithRetry wraps base in Retrying. A nil base stays nil.
func WithRetry(base Provider) Provider {
	if base == nil {
		return nil
	}
	return Retrying{Base: base, Delay: retryBaseDelay}
}

func (r Retrying) GenerateQuestions(ctx context.Context, input GenerateInput) ([]string, error) {
	out, err := r.Base.GenerateQuestions(ctx, input)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}
	if err := r.wait(ctx, "generate_questions", err); err != nil {
		return nil, err
	}
	return r.Base.GenerateQuestions(ctx, input)
}

func (r Retrying) ScoreTranscript(ctx context.Context, input ScoreInput) (FeedbackResult, error) {
	out, err := r.Base.ScoreTranscript(ctx, input)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}
	if err := r.wait(ctx, "score_transcript", err); err != nil {
		return FeedbackResult{}, err
	}
	return r.Base.ScoreTranscript(ctx, input)
}

func (r Retrying) wait(ctx context.Context, op string, cause error) error {
	telemetry.Warn("llm.retry", map[string]any{
		"op":      op,
		"attempt": 1,
		"error":   cause.Error(),
	})
	delay := r.Delay
	if delay < 0 {
		delay = 0
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ShouldRetry reports whether err looks like a transient provider or network
// failure. Invalid model output is never retried.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrInvalidOutput) || errors.Is(err, ErrNotImplemented) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "http status 429") || strings.Contains(msg, "server_error") {
		return true
	}
	for _, transient := range []string{"connection reset", "connection refused", "broken pipe", "tls handshake timeout", "unexpected eof"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

var _ Provider = Retrying{}
