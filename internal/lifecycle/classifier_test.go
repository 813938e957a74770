package lifecycle

import (
	"testing"
	"time"

	"interview-backend/internal/domain/model"
)

var baseNow = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := baseNow.Add(d)
	return &t
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		status       model.Status
		scheduledFor *time.Time
		want         State
	}{
		{name: "ready without schedule", status: model.StatusReady, want: Available},
		{name: "completed ignores past schedule", status: model.StatusCompleted, scheduledFor: at(-time.Hour), want: Available},
		{name: "ready ignores future schedule", status: model.StatusReady, scheduledFor: at(time.Hour), want: Available},
		{name: "scheduled without time", status: model.StatusScheduled, want: Available},
		{name: "one nanosecond ahead", status: model.StatusScheduled, scheduledFor: at(time.Nanosecond), want: PendingScheduled},
		{name: "far future", status: model.StatusScheduled, scheduledFor: at(72 * time.Hour), want: PendingScheduled},
		{name: "exactly now", status: model.StatusScheduled, scheduledFor: at(0), want: ReadyToStart},
		{name: "inside grace", status: model.StatusScheduled, scheduledFor: at(-4 * time.Minute), want: ReadyToStart},
		{name: "just inside grace", status: model.StatusScheduled, scheduledFor: at(-Grace + time.Nanosecond), want: ReadyToStart},
		{name: "exactly grace", status: model.StatusScheduled, scheduledFor: at(-Grace), want: MissedGracePeriod},
		{name: "long missed", status: model.StatusScheduled, scheduledFor: at(-48 * time.Hour), want: MissedGracePeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(baseNow, tt.status, tt.scheduledFor); got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyRangesAcrossOffsets(t *testing.T) {
	for sec := -900; sec <= 900; sec += 7 {
		offset := time.Duration(sec) * time.Second
		got := Classify(baseNow, model.StatusScheduled, at(offset))
		var want State
		switch {
		case offset > 0:
			want = PendingScheduled
		case offset > -Grace:
			want = ReadyToStart
		default:
			want = MissedGracePeriod
		}
		if got != want {
			t.Fatalf("offset %s: got %q, want %q", offset, got, want)
		}
	}
}

func TestClassifyIsIdempotentAndDoesNotMutate(t *testing.T) {
	iv := model.Interview{ID: "iv-1", Status: model.StatusScheduled, ScheduledFor: at(-2 * time.Minute)}
	first := ClassifyInterview(baseNow, iv)
	second := ClassifyInterview(baseNow, iv)
	if first != second {
		t.Fatalf("expected stable classification, got %q then %q", first, second)
	}
	if iv.Status != model.StatusScheduled {
		t.Fatalf("status mutated to %q", iv.Status)
	}
}

func TestClassifyScheduledInterviewOverTime(t *testing.T) {
	scheduled := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	iv := model.Interview{ID: "iv-1", Status: model.StatusScheduled, ScheduledFor: &scheduled}

	checks := []struct {
		now  time.Time
		want State
	}{
		{now: scheduled.Add(-3 * time.Minute), want: PendingScheduled},
		{now: scheduled.Add(3 * time.Minute), want: ReadyToStart},
		{now: scheduled.Add(6 * time.Minute), want: MissedGracePeriod},
	}
	for _, c := range checks {
		if got := ClassifyInterview(c.now, iv); got != c.want {
			t.Fatalf("at %s: got %q, want %q", c.now.Format("15:04:05"), got, c.want)
		}
	}
}

func TestResolveRefinesCompleted(t *testing.T) {
	completed := model.Interview{Status: model.StatusCompleted}
	if got := Resolve(baseNow, completed, false); got != Completed {
		t.Fatalf("completed status: got %q", got)
	}
	ready := model.Interview{Status: model.StatusReady}
	if got := Resolve(baseNow, ready, false); got != Available {
		t.Fatalf("ready without feedback: got %q", got)
	}
	if got := Resolve(baseNow, ready, true); got != Completed {
		t.Fatalf("ready with feedback: got %q", got)
	}
	due := model.Interview{Status: model.StatusScheduled, ScheduledFor: at(-time.Minute)}
	if got := Resolve(baseNow, due, true); got != Completed {
		t.Fatalf("due with feedback: got %q", got)
	}
	pending := model.Interview{Status: model.StatusScheduled, ScheduledFor: at(time.Minute)}
	if got := Resolve(baseNow, pending, true); got != PendingScheduled {
		t.Fatalf("pending stays pending: got %q", got)
	}
}

func TestStateTakeable(t *testing.T) {
	takeable := map[State]bool{
		Available:         true,
		ReadyToStart:      true,
		MissedGracePeriod: true,
		PendingScheduled:  false,
		Completed:         false,
	}
	for state, want := range takeable {
		if got := state.Takeable(); got != want {
			t.Fatalf("%q.Takeable() = %v, want %v", state, got, want)
		}
	}
}
