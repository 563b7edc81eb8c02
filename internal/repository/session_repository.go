package repository

import (
	"context"
	"fmt"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository stores completed interview sessions. Answers are kept
// as a JSONB document; sessions are written once and never updated.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id::text, user_email, candidate_name, category, role, difficulty, start_time,
	exam_code, owner_email, status, question_count, average_score, answers, created_at`

const insertSessionSQL = `INSERT INTO sessions (id, user_email, candidate_name, category, role, difficulty,
	start_time, exam_code, owner_email, status, question_count, average_score, answers, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO NOTHING`

func sessionArgs(s *model.Session) []any {
	answers := s.Answers
	if answers == nil {
		answers = []model.AnswerRecord{}
	}
	return []any{
		s.ID, s.UserEmail, s.CandidateName, s.Category, s.Role, s.Difficulty,
		s.StartTime, nullIfEmpty(s.ExamCode), nullIfEmpty(s.OwnerEmail), s.Status,
		s.QuestionCount, s.AverageScore, answers, s.CreatedAt,
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var s model.Session
	var examCode, ownerEmail *string
	err := row.Scan(&s.ID, &s.UserEmail, &s.CandidateName, &s.Category, &s.Role, &s.Difficulty,
		&s.StartTime, &examCode, &ownerEmail, &s.Status, &s.QuestionCount, &s.AverageScore,
		&s.Answers, &s.CreatedAt)
	if examCode != nil {
		s.ExamCode = *examCode
	}
	if ownerEmail != nil {
		s.OwnerEmail = *ownerEmail
	}
	return s, err
}

// Insert stores one session. Re-inserting the same id is a no-op so that
// requeued sessions are idempotent.
func (r *SessionRepository) Insert(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx, insertSessionSQL, sessionArgs(s)...)
	return err
}

// InsertBatch stores sessions in one transaction.
func (r *SessionRepository) InsertBatch(ctx context.Context, sessions []*model.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range sessions {
		batch.Queue(insertSessionSQL, sessionArgs(s)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *SessionRepository) list(ctx context.Context, where string, args ...any) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM sessions `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListByUser returns a candidate's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, email string, limit int) ([]model.Session, error) {
	return r.list(ctx, `WHERE user_email = $1 ORDER BY created_at DESC`+limitClause(2), email, limit)
}

// ListByExam returns an exam's sessions in completion order.
func (r *SessionRepository) ListByExam(ctx context.Context, code string) ([]model.Session, error) {
	return r.list(ctx, `WHERE exam_code = $1 ORDER BY created_at ASC`, code)
}

// ListByOwner returns sessions of every exam owned by a recruiter in completion order.
func (r *SessionRepository) ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]model.Session, error) {
	return r.list(ctx, `WHERE owner_email = $1 ORDER BY created_at ASC`+limitClause(2), ownerEmail, limit)
}

// ListRecent returns the latest sessions across all candidates, newest first.
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]model.Session, error) {
	return r.list(ctx, `ORDER BY created_at DESC`+limitClause(1), limit)
}

// CountByExam returns completed and violation session counts for an exam.
func (r *SessionRepository) CountByExam(ctx context.Context, code string) (completed, violations int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = 'COMPLETED'),
		        COUNT(*) FILTER (WHERE status = 'VIOLATION_TAB_SWITCH')
		 FROM sessions WHERE exam_code = $1`, code,
	).Scan(&completed, &violations)
	return completed, violations, err
}
