package lifecycle

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"interview-backend/internal/domain/model"
)

func ids(list []model.Interview) []string {
	out := make([]string, 0, len(list))
	for _, iv := range list {
		out = append(out, iv.ID)
	}
	return out
}

func TestPartitionBuckets(t *testing.T) {
	interviews := []model.Interview{
		{ID: "pending", Status: model.StatusScheduled, ScheduledFor: at(10 * time.Minute)},
		{ID: "due", Status: model.StatusScheduled, ScheduledFor: at(-2 * time.Minute)},
		{ID: "missed", Status: model.StatusScheduled, ScheduledFor: at(-10 * time.Minute)},
		{ID: "done", Status: model.StatusCompleted, ScheduledFor: at(-time.Hour)},
		{ID: "instant", Status: model.StatusReady},
		{ID: "graduated", Status: model.StatusReady, ScheduledFor: at(-time.Hour)},
		{ID: "scored", Status: model.StatusReady, ScheduledFor: at(-time.Hour)},
	}
	feedback := map[string]bool{"scored": true}

	board := Partition(baseNow, interviews, func(id string) bool { return feedback[id] })

	assertIDs(t, "pending", ids(board.PendingScheduled), []string{"pending"})
	assertIDs(t, "missed", ids(board.Missed), []string{"missed"})
	assertIDs(t, "completed", ids(board.Completed), []string{"done", "instant", "scored"})
	assertIDs(t, "takeable", ids(board.Takeable), []string{"due", "graduated"})
}

func TestPartitionReadyToStartGraduatesToTakeable(t *testing.T) {
	iv := model.Interview{ID: "iv", Status: model.StatusScheduled, ScheduledFor: at(0)}
	board := Partition(baseNow, []model.Interview{iv}, nil)
	if len(board.Takeable) != 1 || len(board.PendingScheduled) != 0 || len(board.Missed) != 0 {
		t.Fatalf("expected interview to be takeable only, got %+v", board)
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	board := Partition(baseNow, nil, nil)
	if board.Len() != 0 {
		t.Fatalf("expected empty board, got %d", board.Len())
	}
	if board.PendingScheduled == nil || board.Missed == nil || board.Completed == nil || board.Takeable == nil {
		t.Fatalf("expected non-nil buckets for stable JSON output")
	}
}

func TestPartitionIsExactCoverPreservingOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []model.Status{model.StatusScheduled, model.StatusReady, model.StatusCompleted}

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		interviews := make([]model.Interview, 0, n)
		feedback := map[string]bool{}
		for i := 0; i < n; i++ {
			iv := model.Interview{
				ID:     fmt.Sprintf("r%d-%d", round, i),
				Status: statuses[rng.Intn(len(statuses))],
			}
			if rng.Intn(4) > 0 {
				iv.ScheduledFor = at(time.Duration(rng.Intn(1200)-600) * time.Second)
			}
			if rng.Intn(5) == 0 {
				feedback[iv.ID] = true
			}
			interviews = append(interviews, iv)
		}

		board := Partition(baseNow, interviews, func(id string) bool { return feedback[id] })

		if board.Len() != len(interviews) {
			t.Fatalf("round %d: expected %d interviews across buckets, got %d", round, len(interviews), board.Len())
		}
		position := make(map[string]int, len(interviews))
		for i, iv := range interviews {
			position[iv.ID] = i
		}
		seen := map[string]bool{}
		for name, bucket := range map[string][]model.Interview{
			"pending":   board.PendingScheduled,
			"missed":    board.Missed,
			"completed": board.Completed,
			"takeable":  board.Takeable,
		} {
			last := -1
			for _, iv := range bucket {
				if seen[iv.ID] {
					t.Fatalf("round %d: %s appears in more than one bucket", round, iv.ID)
				}
				seen[iv.ID] = true
				if position[iv.ID] <= last {
					t.Fatalf("round %d: bucket %s is out of input order", round, name)
				}
				last = position[iv.ID]
			}
		}
		if len(seen) != len(interviews) {
			t.Fatalf("round %d: expected every interview once, saw %d of %d", round, len(seen), len(interviews))
		}
	}
}

func assertIDs(t *testing.T, bucket string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", bucket, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", bucket, got, want)
		}
	}
}
