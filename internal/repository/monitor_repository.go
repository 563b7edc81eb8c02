package repository

import (
	"context"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonitorRepository provides data access for the recruiter live monitor
// and the proctoring audit trail.
type MonitorRepository struct {
	pool *pgxpool.Pool
}

// NewMonitorRepository creates a new MonitorRepository.
func NewMonitorRepository(pool *pgxpool.Pool) *MonitorRepository {
	return &MonitorRepository{pool: pool}
}

// CopyProctoringEvents bulk-loads events with COPY.
func (r *MonitorRepository) CopyProctoringEvents(ctx context.Context, events []*model.ProctoringEvent) error {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{e.ExamCode, e.Email, e.QuestionIndex, string(e.Kind), e.RecordedAt})
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"proctoring_events"},
		[]string{"exam_code", "email", "question_index", "kind", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// InsertProctoringEvent stores a single event.
func (r *MonitorRepository) InsertProctoringEvent(ctx context.Context, e *model.ProctoringEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO proctoring_events (exam_code, email, question_index, kind, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ExamCode, e.Email, e.QuestionIndex, string(e.Kind), e.RecordedAt,
	)
	return err
}

// GetProctoringCounts returns the number of proctoring events per candidate for an exam.
func (r *MonitorRepository) GetProctoringCounts(ctx context.Context, code string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT email, COUNT(*)
		 FROM proctoring_events
		 WHERE exam_code = $1
		 GROUP BY email`,
		code,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var email string
		var count int64
		if err := rows.Scan(&email, &count); err != nil {
			return nil, err
		}
		counts[email] = count
	}
	return counts, rows.Err()
}
