package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type flakyProvider struct {
	errs  []error
	calls int
}

func (f *flakyProvider) next() error {
	f.calls++
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *flakyProvider) GenerateQuestions(ctx context.Context, input GenerateInput) ([]string, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return []string{"Q1"}, nil
}

func (f *flakyProvider) ScoreTranscript(ctx context.Context, input ScoreInput) (FeedbackResult, error) {
	if err := f.next(); err != nil {
		return FeedbackResult{}, err
	}
	return FeedbackResult{TotalScore: 50}, nil
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("openai http status 503"), true},
		{errors.New("openai http status 429: slow down (rate_limit)"), true},
		{errors.New("openai http status 400: bad request"), false},
		{fmt.Errorf("read: %w", context.DeadlineExceeded), true},
		{context.Canceled, false},
		{errors.New("dial tcp: connection refused"), true},
		{fmt.Errorf("%w: not JSON", ErrInvalidOutput), false},
		{ErrNotImplemented, false},
	}
	for _, tt := range tests {
		if got := ShouldRetry(tt.err); got != tt.want {
			t.Fatalf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRetryingRetriesTransientErrorOnce(t *testing.T) {
	base := &flakyProvider{errs: []error{errors.New("openai http status 502")}}
	r := Retrying{Base: base}

	out, err := r.GenerateQuestions(context.Background(), GenerateInput{})
	if err != nil || len(out) != 1 {
		t.Fatalf("expected success after retry, got %v %v", out, err)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestRetryingGivesUpAfterSecondFailure(t *testing.T) {
	base := &flakyProvider{errs: []error{errors.New("openai http status 500"), errors.New("openai http status 500")}}
	r := Retrying{Base: base}

	if _, err := r.ScoreTranscript(context.Background(), ScoreInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestRetryingSkipsPermanentErrors(t *testing.T) {
	base := &flakyProvider{errs: []error{fmt.Errorf("%w: questions array missing", ErrInvalidOutput)}}
	r := Retrying{Base: base}

	if _, err := r.GenerateQuestions(context.Background(), GenerateInput{}); !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call, got %d", base.calls)
	}
}

func TestRetryingStopsOnCancelledContext(t *testing.T) {
	base := &flakyProvider{errs: []error{errors.New("openai http status 503")}}
	r := Retrying{Base: base, Delay: retryBaseDelay}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.GenerateQuestions(ctx, GenerateInput{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call, got %d", base.calls)
	}
}

func TestWithRetryNil(t *testing.T) {
	if WithRetry(nil) != nil {
		t.Fatalf("expected nil")
	}
}
