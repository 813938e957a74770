package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogLineShape(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Warn("feedback.retry", map[string]any{
		"interview_id": "iv-1",
		"attempt":      2,
		"error":        errors.New("timeout"),
	})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["msg"] != "feedback.retry" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
	if ts, ok := payload["ts"].(string); !ok || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC ts, got %v", payload["ts"])
	}
	if payload["interview_id"] != "iv-1" || payload["error"] != "timeout" {
		t.Fatalf("unexpected fields %v", payload)
	}
	if payload["attempt"] != float64(2) {
		t.Fatalf("unexpected attempt %v", payload["attempt"])
	}
}

func TestOneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Info("a", nil)
	Error("b", map[string]any{"k": "v"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}
