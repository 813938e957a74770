package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	"interview-backend/internal/queue"
	"interview-backend/internal/shared/clock"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/storage/object"
	"interview-backend/internal/shared/telemetry"
)

// maxTranscriptBytes bounds how much of a stored transcript is read back.
const maxTranscriptBytes = 1 << 20

// Service scores taken interviews and serves the stored feedback.
type Service struct {
	Repo       Repo
	Interviews interviews.Repo
	Store      object.ObjectStore
	Scorer     llm.FeedbackScorer
	Clock      clock.Clock
}

// Get returns the feedback for a user's interview.
func (s *Service) Get(ctx context.Context, userID, interviewID string) (model.Feedback, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(interviewID) == "" {
		return model.Feedback{}, ErrNotFound
	}
	return s.Repo.GetByInterview(ctx, interviewID, userID)
}

// HandleMessage scores the interview named by a queue message.
func (s *Service) HandleMessage(ctx context.Context, msg queue.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	_, err := s.Score(ctx, msg.InterviewID, msg.UserID, msg.TranscriptKey)
	return err
}

// Score grades a completed interview. Scoring an interview that already has
// feedback returns the stored feedback unchanged.
func (s *Service) Score(ctx context.Context, interviewID, userID, transcriptKey string) (model.Feedback, error) {
	if s.Repo == nil || s.Interviews == nil || s.Store == nil || s.Scorer == nil {
		return model.Feedback{}, errors.New("feedback service not configured")
	}
	start := time.Now()

	existing, err := s.Repo.GetByInterview(ctx, interviewID, userID)
	if err == nil {
		metrics.IncFeedbackJob("existing")
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Feedback{}, err
	}

	iv, err := s.Interviews.GetByID(ctx, userID, interviewID)
	if err != nil {
		return model.Feedback{}, s.fail(interviewID, fmt.Errorf("load interview: %w", err))
	}
	if iv.Status != model.StatusCompleted {
		return model.Feedback{}, s.fail(interviewID, ErrNotCompleted)
	}
	if strings.TrimSpace(transcriptKey) == "" {
		transcriptKey = iv.TranscriptKey
	}
	transcript, err := s.loadTranscript(ctx, transcriptKey)
	if err != nil {
		return model.Feedback{}, s.fail(interviewID, err)
	}

	result, err := s.Scorer.ScoreTranscript(ctx, llm.ScoreInput{
		Role:       iv.Role,
		Level:      iv.Level,
		Type:       iv.Type,
		TechStack:  iv.TechStack,
		Questions:  iv.Questions,
		Transcript: transcript,
	})
	if err != nil {
		return model.Feedback{}, s.fail(interviewID, fmt.Errorf("score transcript: %w", err))
	}

	fb := model.Feedback{
		ID:                  uuid.NewString(),
		InterviewID:         interviewID,
		UserID:              userID,
		TotalScore:          result.TotalScore,
		CategoryScores:      result.CategoryScores,
		Strengths:           result.Strengths,
		AreasForImprovement: result.AreasForImprovement,
		FinalAssessment:     result.FinalAssessment,
		CreatedAt:           clock.OrSystem(s.Clock).Now().UTC(),
	}
	if err := s.Repo.Create(ctx, fb); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			metrics.IncFeedbackJob("existing")
			return s.Repo.GetByInterview(ctx, interviewID, userID)
		}
		return model.Feedback{}, s.fail(interviewID, fmt.Errorf("save feedback: %w", err))
	}

	elapsed := metrics.Since(start)
	metrics.IncFeedbackJob("scored")
	metrics.ObserveFeedbackDurationMs(elapsed)
	telemetry.Info("feedback.scored", map[string]any{
		"interview_id": interviewID,
		"user_id":      userID,
		"total_score":  fb.TotalScore,
		"duration_ms":  elapsed,
	})
	return fb, nil
}

func (s *Service) loadTranscript(ctx context.Context, key string) ([]model.TranscriptEntry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrTranscriptMissing
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptMissing, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxTranscriptBytes))
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var transcript []model.TranscriptEntry
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if len(transcript) == 0 {
		return nil, ErrTranscriptMissing
	}
	return transcript, nil
}

func (s *Service) fail(interviewID string, err error) error {
	metrics.IncFeedbackJob("failed")
	telemetry.Error("feedback.failed", map[string]any{
		"interview_id": interviewID,
		"error":        err.Error(),
	})
	return err
}
