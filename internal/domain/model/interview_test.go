package model

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{raw: "scheduled", want: StatusScheduled},
		{raw: " Ready ", want: StatusReady},
		{raw: "COMPLETED", want: StatusCompleted},
		{raw: "missed", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseStatus(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestIsScheduledRequiresStatusAndTime(t *testing.T) {
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	if !(Interview{Status: StatusScheduled, ScheduledFor: &at}).IsScheduled() {
		t.Fatalf("expected scheduled interview with time to be scheduled")
	}
	if (Interview{Status: StatusScheduled}).IsScheduled() {
		t.Fatalf("expected scheduled interview without time to not be scheduled")
	}
	if (Interview{Status: StatusCompleted, ScheduledFor: &at}).IsScheduled() {
		t.Fatalf("expected completed interview to not be scheduled")
	}
}
