package llm

import (
	"context"
	"errors"

	"interview-backend/internal/domain/model"
)

// GenerateInput captures what the question generator needs.
type GenerateInput struct {
	Role      string
	Level     string
	Type      string
	TechStack []string
	Amount    int
}

// QuestionGenerator produces interview questions for a role.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, input GenerateInput) ([]string, error)
}

// ScoreInput is a taken interview ready for scoring.
type ScoreInput struct {
	Role       string
	Level      string
	Type       string
	TechStack  []string
	Questions  []string
	Transcript []model.TranscriptEntry
}

// FeedbackResult is the scorer's verdict before it is persisted.
type FeedbackResult struct {
	TotalScore          int
	CategoryScores      []model.CategoryScore
	Strengths           []string
	AreasForImprovement []string
	FinalAssessment     string
}

// FeedbackScorer grades an interview transcript.
type FeedbackScorer interface {
	ScoreTranscript(ctx context.Context, input ScoreInput) (FeedbackResult, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrInvalidOutput is returned when the model answer cannot be used.
var ErrInvalidOutput = errors.New("invalid LLM output")

// PlaceholderClient is a stub used when no provider is configured.
type PlaceholderClient struct{}

// GenerateQuestions returns ErrNotImplemented.
func (PlaceholderClient) GenerateQuestions(ctx context.Context, input GenerateInput) ([]string, error) {
	return nil, ErrNotImplemented
}

// ScoreTranscript returns ErrNotImplemented.
func (PlaceholderClient) ScoreTranscript(ctx context.Context, input ScoreInput) (FeedbackResult, error) {
	return FeedbackResult{}, ErrNotImplemented
}

var (
	_ QuestionGenerator = PlaceholderClient{}
	_ FeedbackScorer    = PlaceholderClient{}
)
