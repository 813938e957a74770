package interviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/lifecycle"
	"interview-backend/internal/llm"
	"interview-backend/internal/queue"
	"interview-backend/internal/shared/clock"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/storage/object"
	"interview-backend/internal/shared/telemetry"
)

// FeedbackIndex answers "has this interview been scored" for the lifecycle rules.
type FeedbackIndex interface {
	Exists(ctx context.Context, userID, interviewID string) (bool, error)
	ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error)
}

// Service contains business logic for interviews.
type Service struct {
	Repo      Repo
	Generator llm.QuestionGenerator
	Feedback  FeedbackIndex
	Store     object.ObjectStore
	Queue     queue.Client
	Clock     clock.Clock
	Builder   RequestBuilder
}

// BoardView is a partitioned board plus the state each interview was read in.
type BoardView struct {
	lifecycle.Board
	States map[string]lifecycle.State
}

// Completion describes an accepted interview completion.
type Completion struct {
	Interview     model.Interview
	TakenAs       lifecycle.State
	TranscriptKey string
}

func (s *Service) now() time.Time {
	return clock.OrSystem(s.Clock).Now()
}

// Create validates the form at the current instant and submits it.
func (s *Service) Create(ctx context.Context, userID string, form FormFields) (model.Interview, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Interview{}, ErrForbidden
	}
	req, err := s.Builder.Build(s.now(), userID, form)
	if err != nil {
		return model.Interview{}, err
	}
	return s.Submit(ctx, req)
}

// Submit generates questions for req and persists the interview. A schedule
// that is no longer in the future is rejected before the generator is called.
// Nothing is persisted when generation fails.
func (s *Service) Submit(ctx context.Context, req GenerationRequest) (model.Interview, error) {
	if s.Repo == nil || s.Generator == nil {
		return model.Interview{}, errors.New("interviews service not configured")
	}
	now := s.now()
	if req.ScheduledFor != nil && !req.ScheduledFor.After(now) {
		return model.Interview{}, invalid("scheduledTime", ErrSchedulingInPast, "scheduled time must be in the future")
	}

	questions, err := s.Generator.GenerateQuestions(ctx, llm.GenerateInput{
		Role:      req.Role,
		Level:     req.Level,
		Type:      req.Type,
		TechStack: req.TechStack,
		Amount:    req.Amount,
	})
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("interview.generation_failed", map[string]any{
			"user_id": req.UserID,
			"role":    req.Role,
			"error":   err.Error(),
		})
		return model.Interview{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	iv := model.Interview{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Role:      req.Role,
		Level:     req.Level,
		Type:      req.Type,
		TechStack: append([]string(nil), req.TechStack...),
		Questions: questions,
		Status:    model.StatusReady,
		CreatedAt: now,
	}
	if req.Scheduled() {
		at := req.ScheduledFor.UTC()
		iv.Status = model.StatusScheduled
		iv.ScheduledFor = &at
	}
	if err := s.Repo.Create(ctx, iv); err != nil {
		return model.Interview{}, err
	}

	metrics.IncInterviewCreated(req.Scheduled())
	fields := map[string]any{
		"interview_id": iv.ID,
		"user_id":      iv.UserID,
		"status":       string(iv.Status),
		"questions":    len(iv.Questions),
	}
	if iv.ScheduledFor != nil {
		fields["scheduled_for"] = iv.ScheduledFor.Format(time.RFC3339)
	}
	telemetry.Info("interview.created", fields)
	return iv, nil
}

// Board loads the user's interviews and partitions them at the current instant.
func (s *Service) Board(ctx context.Context, userID string) (BoardView, error) {
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return BoardView{}, err
	}
	scored, err := s.scored(ctx, userID)
	if err != nil {
		return BoardView{}, err
	}
	now := s.now()
	hasFeedback := func(id string) bool { return scored[id] }

	view := BoardView{
		Board:  lifecycle.Partition(now, list, hasFeedback),
		States: make(map[string]lifecycle.State, len(list)),
	}
	for _, iv := range list {
		state := lifecycle.Resolve(now, iv, scored[iv.ID])
		view.States[iv.ID] = state
		metrics.ObserveLifecycle(string(state))
	}
	return view, nil
}

// Detail returns the interview and its detail projection. Questions are
// withheld while the interview is pending. Other users' interviews are
// reported as not found.
func (s *Service) Detail(ctx context.Context, userID, interviewID string) (model.Interview, lifecycle.Detail, error) {
	iv, err := s.get(ctx, userID, interviewID)
	if err != nil {
		return model.Interview{}, lifecycle.Detail{}, err
	}
	hasFeedback, err := s.hasFeedback(ctx, userID, interviewID)
	if err != nil {
		return model.Interview{}, lifecycle.Detail{}, err
	}
	detail := lifecycle.Describe(s.now(), iv, hasFeedback)
	if !detail.QuestionsVisible {
		iv.Questions = nil
	}
	metrics.ObserveLifecycle(string(detail.State))
	return iv, detail, nil
}

// Complete records a taken interview: the transcript is stored, the status
// becomes completed and a feedback job is queued. Only takeable interviews
// can be completed.
func (s *Service) Complete(ctx context.Context, userID, interviewID, requestID string, transcript []model.TranscriptEntry) (Completion, error) {
	if s.Store == nil || s.Queue == nil {
		return Completion{}, errors.New("interviews service not configured")
	}
	iv, err := s.get(ctx, userID, interviewID)
	if err != nil {
		return Completion{}, err
	}
	hasFeedback, err := s.hasFeedback(ctx, userID, interviewID)
	if err != nil {
		return Completion{}, err
	}
	now := s.now()
	state := lifecycle.Resolve(now, iv, hasFeedback)
	if !state.Takeable() {
		return Completion{}, fmt.Errorf("%w: %s", ErrNotTakeable, state)
	}
	turns := cleanTranscript(transcript)
	if len(turns) == 0 {
		return Completion{}, ErrEmptyTranscript
	}

	payload, err := json.Marshal(turns)
	if err != nil {
		return Completion{}, fmt.Errorf("encode transcript: %w", err)
	}
	key := object.TranscriptKey(userID, interviewID)
	// Claim the interview first so a concurrent completion fails before it
	// touches the stored transcript or queues a second job.
	if err := s.Repo.MarkCompleted(ctx, userID, interviewID, key); err != nil {
		return Completion{}, err
	}
	previous := iv.Status
	if _, err := s.Store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		s.reopen(ctx, userID, interviewID, requestID, previous, "transcript.store_failed", err)
		return Completion{}, fmt.Errorf("store transcript: %w", err)
	}
	iv.Status = model.StatusCompleted
	iv.TranscriptKey = key

	msg := queue.NewMessage(interviewID, userID, key, requestID, now)
	if err := s.Queue.Send(ctx, msg); err != nil {
		s.reopen(ctx, userID, interviewID, requestID, previous, "feedback.enqueue_failed", err)
		return Completion{}, fmt.Errorf("enqueue feedback: %w", err)
	}
	metrics.IncFeedbackJob("enqueued")
	metrics.IncInterviewCompleted(string(state))
	telemetry.Info("interview.completed", map[string]any{
		"interview_id": interviewID,
		"user_id":      userID,
		"request_id":   requestID,
		"lifecycle":    string(state),
		"turns":        len(turns),
	})
	return Completion{Interview: iv, TakenAs: state, TranscriptKey: key}, nil
}

// reopen undoes MarkCompleted after a failed completion so the user can retry.
func (s *Service) reopen(ctx context.Context, userID, interviewID, requestID string, status model.Status, event string, cause error) {
	fields := map[string]any{
		"interview_id": interviewID,
		"request_id":   requestID,
		"error":        cause.Error(),
	}
	if err := s.Repo.Reopen(context.WithoutCancel(ctx), userID, interviewID, status); err != nil {
		fields["reopen_error"] = err.Error()
	}
	telemetry.Error(event, fields)
}

func (s *Service) get(ctx context.Context, userID, interviewID string) (model.Interview, error) {
	if strings.TrimSpace(interviewID) == "" {
		return model.Interview{}, ErrNotFound
	}
	iv, err := s.Repo.GetByID(ctx, userID, interviewID)
	if errors.Is(err, ErrForbidden) {
		return model.Interview{}, ErrNotFound
	}
	return iv, err
}

func (s *Service) hasFeedback(ctx context.Context, userID, interviewID string) (bool, error) {
	if s.Feedback == nil {
		return false, nil
	}
	return s.Feedback.Exists(ctx, userID, interviewID)
}

func (s *Service) scored(ctx context.Context, userID string) (map[string]bool, error) {
	if s.Feedback == nil {
		return map[string]bool{}, nil
	}
	return s.Feedback.ScoredInterviewIDs(ctx, userID)
}

func cleanTranscript(in []model.TranscriptEntry) []model.TranscriptEntry {
	out := make([]model.TranscriptEntry, 0, len(in))
	for _, e := range in {
		role := strings.ToLower(strings.TrimSpace(e.Role))
		content := strings.TrimSpace(e.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, model.TranscriptEntry{Role: role, Content: content})
	}
	return out
}
