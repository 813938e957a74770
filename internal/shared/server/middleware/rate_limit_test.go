package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/clock"
)

func limitedRouter(limiter *RateLimiter, rules map[string]RateLimitRule, groupFor func(*gin.Context) string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules:        rules,
	}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/v1/interviews/:id", ok)
	r.POST("/api/v1/interviews", ok)
	r.POST("/api/v1/interviews/:id/complete", ok)
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp
}

func TestRouteGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/v1/interviews", GroupGenerate},
		{http.MethodPost, "/api/v1/interviews/iv-1/complete", GroupGenerate},
		{http.MethodGet, "/api/v1/interviews/iv-1", GroupPolling},
		{http.MethodDelete, "/api/v1/interviews/iv-1", defaultRateLimitGroup},
	}
	for _, tt := range tests {
		var got string
		r := gin.New()
		handler := func(c *gin.Context) { got = RouteGroup(c) }
		r.POST("/api/v1/interviews", handler)
		r.POST("/api/v1/interviews/:id/complete", handler)
		r.GET("/api/v1/interviews/:id", handler)
		r.DELETE("/api/v1/interviews/:id", handler)
		serve(r, tt.method, tt.path)
		if got != tt.want {
			t.Fatalf("%s %s: expected %s, got %s", tt.method, tt.path, tt.want, got)
		}
	}
}

func TestRateLimitPollingHigherThanGenerate(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(NewRateLimiter(clock.Fixed(now)), map[string]RateLimitRule{
		GroupGenerate: {Rate: 1, Burst: 2},
		GroupPolling:  {Rate: 5, Burst: 10},
	}, RouteGroup)

	for i := 0; i < 3; i++ {
		if resp := serve(r, http.MethodGet, "/api/v1/interviews/iv-1"); resp.Code != http.StatusOK {
			t.Fatalf("polling request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := serve(r, http.MethodPost, "/api/v1/interviews"); resp.Code != http.StatusOK {
		t.Fatalf("create expected 200, got %d", resp.Code)
	}
	if resp := serve(r, http.MethodPost, "/api/v1/interviews/iv-1/complete"); resp.Code != http.StatusOK {
		t.Fatalf("complete expected 200, got %d", resp.Code)
	}
	if resp := serve(r, http.MethodPost, "/api/v1/interviews"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("third generate request expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429UsesErrorEnvelope(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(NewRateLimiter(clock.Fixed(now)), map[string]RateLimitRule{
		"DEFAULT": {Rate: 1, Burst: 1},
	}, func(c *gin.Context) string { return "DEFAULT" })

	if resp := serve(r, http.MethodGet, "/api/v1/interviews/iv-1"); resp.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.Code)
	}
	resp := serve(r, http.MethodGet, "/api/v1/interviews/iv-1")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected rate_limited, got %q", payload.Error.Code)
	}
	if payload.Error.Details["retryAfterMs"] != float64(1000) {
		t.Fatalf("expected retryAfterMs 1000, got %v", payload.Error.Details["retryAfterMs"])
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(clock.Func(func() time.Time { return now }))
	rule := RateLimitRule{Rate: 0.5, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok || wait != 2*time.Second {
		t.Fatalf("expected 2s wait, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected token after refill")
	}
}
