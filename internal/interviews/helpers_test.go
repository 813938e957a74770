package interviews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"interview-backend/internal/llm"
	"interview-backend/internal/queue"
	"interview-backend/internal/shared/clock"
	"interview-backend/internal/shared/storage/object/local"
)

type stubGenerator struct {
	mu    sync.Mutex
	calls []llm.GenerateInput
	err   error
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, input llm.GenerateInput) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, input)
	if g.err != nil {
		return nil, g.err
	}
	out := make([]string, 0, input.Amount)
	for i := 0; i < input.Amount; i++ {
		out = append(out, input.Role+" question")
	}
	return out, nil
}

type stubQueue struct {
	mu   sync.Mutex
	sent []queue.Message
	err  error
}

func (q *stubQueue) Send(ctx context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}

type stubFeedback struct {
	scored map[string]bool
	err    error
}

func (f *stubFeedback) Exists(ctx context.Context, userID, interviewID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.scored[interviewID], nil
}

func (f *stubFeedback) ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool, len(f.scored))
	for k, v := range f.scored {
		out[k] = v
	}
	return out, nil
}

var errGeneratorDown = errors.New("upstream 503")

// testClock is a settable clock shared by a service under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fixture struct {
	svc       *Service
	repo      *MemoryRepo
	generator *stubGenerator
	queue     *stubQueue
	feedback  *stubFeedback
	store     *local.Store
	clock     *testClock
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{
		repo:      NewMemoryRepo(),
		generator: &stubGenerator{},
		queue:     &stubQueue{},
		feedback:  &stubFeedback{scored: map[string]bool{}},
		store:     local.New(t.TempDir()),
		clock:     &testClock{now: now},
	}
	f.svc = &Service{
		Repo:      f.repo,
		Generator: f.generator,
		Feedback:  f.feedback,
		Store:     f.store,
		Queue:     f.queue,
		Clock:     f.clock,
		Builder:   RequestBuilder{Location: time.UTC},
	}
	return f
}

var _ clock.Clock = (*testClock)(nil)
