package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"interview-backend/internal/domain/model"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const feedbackColumns = `id, interview_id, user_id, total_score, category_scores, strengths, areas_for_improvement, final_assessment, created_at`

func (r *PGRepo) Create(ctx context.Context, fb model.Feedback) error {
	categories, err := json.Marshal(nonNilScores(fb.CategoryScores))
	if err != nil {
		return fmt.Errorf("encode category scores: %w", err)
	}
	strengths, err := json.Marshal(nonNil(fb.Strengths))
	if err != nil {
		return fmt.Errorf("encode strengths: %w", err)
	}
	areas, err := json.Marshal(nonNil(fb.AreasForImprovement))
	if err != nil {
		return fmt.Errorf("encode areas for improvement: %w", err)
	}
	const query = `
INSERT INTO feedback (` + feedbackColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (interview_id, user_id) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query,
		fb.ID,
		fb.InterviewID,
		fb.UserID,
		fb.TotalScore,
		categories,
		strengths,
		areas,
		fb.FinalAssessment,
		fb.CreatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *PGRepo) GetByInterview(ctx context.Context, interviewID, userID string) (model.Feedback, error) {
	const query = `
SELECT ` + feedbackColumns + `
FROM feedback
WHERE interview_id = $1 AND user_id = $2
LIMIT 1`
	var (
		fb         model.Feedback
		categories []byte
		strengths  []byte
		areas      []byte
	)
	err := r.DB.QueryRowContext(ctx, query, interviewID, userID).Scan(
		&fb.ID,
		&fb.InterviewID,
		&fb.UserID,
		&fb.TotalScore,
		&categories,
		&strengths,
		&areas,
		&fb.FinalAssessment,
		&fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Feedback{}, ErrNotFound
		}
		return model.Feedback{}, err
	}
	fb.CategoryScores = []model.CategoryScore{}
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &fb.CategoryScores); err != nil {
			return model.Feedback{}, fmt.Errorf("decode category scores: %w", err)
		}
	}
	if err := decodeList(strengths, &fb.Strengths); err != nil {
		return model.Feedback{}, fmt.Errorf("decode strengths: %w", err)
	}
	if err := decodeList(areas, &fb.AreasForImprovement); err != nil {
		return model.Feedback{}, fmt.Errorf("decode areas for improvement: %w", err)
	}
	fb.CreatedAt = fb.CreatedAt.UTC()
	return fb, nil
}

func (r *PGRepo) ScoredInterviewIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT interview_id FROM feedback WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func decodeList(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func nonNilScores(list []model.CategoryScore) []model.CategoryScore {
	if list == nil {
		return []model.CategoryScore{}
	}
	return list
}

var _ Repo = (*PGRepo)(nil)
