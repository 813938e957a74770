package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "OBJECT_STORE", "LLM_PROVIDER", "APP_TIMEZONE", "IV_SQS_QUEUE_URL", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" || cfg.Env != "dev" || cfg.ObjectStoreType != "local" || cfg.LLMProvider != "openai" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.FeedbackQueueURL != "" {
		t.Fatalf("expected no queue url, got %q", cfg.FeedbackQueueURL)
	}
	if cfg.Location() != time.Local {
		t.Fatalf("expected local location")
	}
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "PORT=9090\nAPP_TIMEZONE=Europe/Berlin\nENV=prod\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("ENV", "")
	os.Unsetenv("APP_TIMEZONE")
	os.Unsetenv("ENV")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("expected env PORT to win, got %q", cfg.Port)
	}
	if cfg.AppTimezone != "Europe/Berlin" {
		t.Fatalf("expected timezone from .env, got %q", cfg.AppTimezone)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected normalized production env, got %q", cfg.Env)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
}

func TestLocationFallsBackOnUnknownZone(t *testing.T) {
	cfg := Config{AppTimezone: "Nowhere/Special"}
	if cfg.Location() != time.Local {
		t.Fatalf("expected fallback to local")
	}
}
