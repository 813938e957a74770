package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptsQuestions(t *testing.T) {
	out, err := run(t, "prompts", "--role", "Frontend Developer", "--techstack", "React, TypeScript,", "--amount", "7")
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	for _, want := range []string{"# version v1", "## system", "Frontend Developer", "React, TypeScript", "required is: 7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPromptsFeedbackWithTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	body := `[{"role":"assistant","content":"Tell me about goroutines."},{"role":"user","content":"They are cheap threads."}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	out, err := run(t, "prompts", "--kind", "feedback", "--transcript", path)
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	for _, want := range []string{"- user: They are cheap threads.", "Technical Knowledge"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPromptsRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("version: v2\nquestions:\n  user: hi\n"), 0o644); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	if _, err := run(t, "prompts", "--file", path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := run(t, "prompts", "--kind", "summary"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
