package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interview-backend/internal/domain/model"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const interviewColumns = `id, user_id, role, level, type, techstack, questions, status, scheduled_for, transcript_key, created_at`

// Create inserts an interview.
func (r *PGRepo) Create(ctx context.Context, iv model.Interview) error {
	techstack, err := json.Marshal(nonNil(iv.TechStack))
	if err != nil {
		return fmt.Errorf("encode techstack: %w", err)
	}
	questions, err := json.Marshal(nonNil(iv.Questions))
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	const query = `
INSERT INTO interviews (` + interviewColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.DB.ExecContext(ctx, query,
		iv.ID,
		iv.UserID,
		iv.Role,
		iv.Level,
		iv.Type,
		techstack,
		questions,
		string(iv.Status),
		nullableTime(iv.ScheduledFor),
		nullableString(iv.TranscriptKey),
		iv.CreatedAt,
	)
	return err
}

// GetByID returns an interview by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, interviewID string) (model.Interview, error) {
	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE id = $1
LIMIT 1`
	iv, err := scanInterview(r.DB.QueryRowContext(ctx, query, interviewID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Interview{}, ErrNotFound
		}
		return model.Interview{}, err
	}
	if iv.UserID != userID {
		return model.Interview{}, ErrForbidden
	}
	return iv, nil
}

// ListByUser lists a user's interviews newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]model.Interview, error) {
	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// MarkCompleted sets status=completed and records the transcript key. Only
// one of two concurrent completions can win the update.
func (r *PGRepo) MarkCompleted(ctx context.Context, userID, interviewID, transcriptKey string) error {
	const query = `
UPDATE interviews
SET status = 'completed', transcript_key = $3
WHERE id = $1 AND user_id = $2 AND status <> 'completed'`
	res, err := r.DB.ExecContext(ctx, query, interviewID, userID, nullableString(transcriptKey))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM interviews WHERE id = $1 AND user_id = $2`, interviewID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrNotTakeable, status)
}

// Reopen restores a completed interview to status and drops its transcript key.
func (r *PGRepo) Reopen(ctx context.Context, userID, interviewID string, status model.Status) error {
	const query = `
UPDATE interviews
SET status = $3, transcript_key = NULL
WHERE id = $1 AND user_id = $2 AND status = 'completed'`
	res, err := r.DB.ExecContext(ctx, query, interviewID, userID, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (model.Interview, error) {
	var (
		iv            model.Interview
		techstack     []byte
		questions     []byte
		status        string
		scheduledFor  sql.NullTime
		transcriptKey sql.NullString
	)
	if err := row.Scan(
		&iv.ID,
		&iv.UserID,
		&iv.Role,
		&iv.Level,
		&iv.Type,
		&techstack,
		&questions,
		&status,
		&scheduledFor,
		&transcriptKey,
		&iv.CreatedAt,
	); err != nil {
		return model.Interview{}, err
	}
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return model.Interview{}, err
	}
	iv.Status = parsed
	if err := decodeList(techstack, &iv.TechStack); err != nil {
		return model.Interview{}, fmt.Errorf("decode techstack: %w", err)
	}
	if err := decodeList(questions, &iv.Questions); err != nil {
		return model.Interview{}, fmt.Errorf("decode questions: %w", err)
	}
	if scheduledFor.Valid {
		at := scheduledFor.Time.UTC()
		iv.ScheduledFor = &at
	}
	if transcriptKey.Valid {
		iv.TranscriptKey = transcriptKey.String
	}
	iv.CreatedAt = iv.CreatedAt.UTC()
	return iv, nil
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

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
