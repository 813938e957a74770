package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/llm"
	"interview-backend/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements llm.QuestionGenerator and llm.FeedbackScorer using OpenAI
// Chat Completions in JSON mode.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	prompts    *llm.PromptSet
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string, prompts *llm.PromptSet) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if prompts == nil {
		return nil, fmt.Errorf("prompts are required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	baseURL := defaultBaseURL
	if raw := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); raw != "" {
		baseURL = strings.TrimRight(raw, "/")
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		prompts: prompts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// GenerateQuestions asks the model for input.Amount questions.
func (c *Client) GenerateQuestions(ctx context.Context, input llm.GenerateInput) ([]string, error) {
	system, user, err := c.prompts.RenderQuestions(input)
	if err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, "questions", system, user)
	if err != nil {
		return nil, err
	}
	return parseQuestions(content, input.Amount)
}

// ScoreTranscript asks the model to grade a transcript.
func (c *Client) ScoreTranscript(ctx context.Context, input llm.ScoreInput) (llm.FeedbackResult, error) {
	system, user, err := c.prompts.RenderFeedback(input)
	if err != nil {
		return llm.FeedbackResult{}, err
	}
	content, err := c.complete(ctx, "feedback", system, user)
	if err != nil {
		return llm.FeedbackResult{}, err
	}
	return parseFeedback(content)
}

func (c *Client) complete(ctx context.Context, purpose, system, user string) (string, error) {
	temp := float32(0.2)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	if !isGPT5(c.model) {
		reqBody.Temperature = &temp
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("openai response parse: http status %d", resp.StatusCode)
	}
	parsed := gjson.ParseBytes(body)
	if msg := parsed.Get("error.message"); msg.Exists() {
		return "", fmt.Errorf("openai http status %d: %s (%s)", resp.StatusCode, msg.String(), parsed.Get("error.type").String())
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http status %d", resp.StatusCode)
	}
	content := strings.TrimSpace(parsed.Get("choices.0.message.content").String())
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}

	telemetry.Info("llm.response", map[string]any{
		"purpose":           purpose,
		"model":             c.model,
		"duration_ms":       float64(time.Since(start).Microseconds()) / 1000.0,
		"prompt_tokens":     parsed.Get("usage.prompt_tokens").Int(),
		"completion_tokens": parsed.Get("usage.completion_tokens").Int(),
	})
	return content, nil
}

// parseQuestions extracts the questions array. Extra questions beyond amount
// are dropped; fewer than one usable question is an error.
func parseQuestions(content string, amount int) ([]string, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("%w: not JSON", llm.ErrInvalidOutput)
	}
	arr := gjson.Get(content, "questions")
	if !arr.IsArray() {
		arr = gjson.Parse(content)
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("%w: questions array missing", llm.ErrInvalidOutput)
	}
	var out []string
	arr.ForEach(func(_, value gjson.Result) bool {
		if q := strings.TrimSpace(value.String()); q != "" {
			out = append(out, q)
		}
		return amount <= 0 || len(out) < amount
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no questions", llm.ErrInvalidOutput)
	}
	return out, nil
}

func parseFeedback(content string) (llm.FeedbackResult, error) {
	if !gjson.Valid(content) {
		return llm.FeedbackResult{}, fmt.Errorf("%w: not JSON", llm.ErrInvalidOutput)
	}
	doc := gjson.Parse(content)
	total := doc.Get("totalScore")
	if !total.Exists() {
		return llm.FeedbackResult{}, fmt.Errorf("%w: totalScore missing", llm.ErrInvalidOutput)
	}
	result := llm.FeedbackResult{
		TotalScore:          clampScore(total.Int()),
		Strengths:           stringList(doc.Get("strengths")),
		AreasForImprovement: stringList(doc.Get("areasForImprovement")),
		FinalAssessment:     strings.TrimSpace(doc.Get("finalAssessment").String()),
		CategoryScores:      []model.CategoryScore{},
	}
	doc.Get("categoryScores").ForEach(func(_, value gjson.Result) bool {
		name := strings.TrimSpace(value.Get("name").String())
		if name == "" {
			return true
		}
		result.CategoryScores = append(result.CategoryScores, model.CategoryScore{
			Name:    name,
			Score:   clampScore(value.Get("score").Int()),
			Comment: strings.TrimSpace(value.Get("comment").String()),
		})
		return true
	})
	return result, nil
}

func stringList(r gjson.Result) []string {
	out := []string{}
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampScore(v int64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var (
	_ llm.QuestionGenerator = (*Client)(nil)
	_ llm.FeedbackScorer    = (*Client)(nil)
)
