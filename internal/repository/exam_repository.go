package repository

import (
	"context"
	"strconv"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam configuration data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `code, creator_email, company_name, company_logo, role, category, difficulty,
	invited_emails, created_at`

func scanExam(row interface{ Scan(...any) error }) (*model.ExamConfig, error) {
	e := &model.ExamConfig{}
	var invited []string
	if err := row.Scan(&e.Code, &e.CreatorEmail, &e.CompanyName, &e.CompanyLogo, &e.Role,
		&e.Category, &e.Difficulty, &invited, &e.CreatedAt); err != nil {
		return nil, err
	}
	if len(invited) > 0 {
		e.InvitedEmails = invited
	}
	return e, nil
}

// GetByCode retrieves an exam by its (uppercase) access code.
func (r *ExamRepository) GetByCode(ctx context.Context, code string) (*model.ExamConfig, error) {
	e, err := scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exam_configs WHERE code = $1`, code))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// Create inserts a new exam. ErrDuplicateCode signals an access-code collision.
func (r *ExamRepository) Create(ctx context.Context, e *model.ExamConfig) error {
	invited := e.InvitedEmails
	if invited == nil {
		invited = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_configs (code, creator_email, company_name, company_logo, role, category, difficulty, invited_emails)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		e.Code, e.CreatorEmail, e.CompanyName, e.CompanyLogo, e.Role, e.Category, e.Difficulty, invited,
	).Scan(&e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// ListByCreatorPaginated lists a recruiter's exams, newest first.
func (r *ExamRepository) ListByCreatorPaginated(ctx context.Context, creatorEmail string, limit, offset int) ([]model.ExamConfig, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_configs WHERE creator_email = $1`, creatorEmail,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exam_configs WHERE creator_email = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		creatorEmail, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	exams := make([]model.ExamConfig, 0, limit)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		exams = append(exams, *e)
	}
	return exams, total, rows.Err()
}

// ListCodesByCreator returns every access code owned by a recruiter.
func (r *ExamRepository) ListCodesByCreator(ctx context.Context, creatorEmail string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code FROM exam_configs WHERE creator_email = $1`, creatorEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// CountSessions returns the number of completed sessions per access code for a recruiter.
func (r *ExamRepository) CountSessions(ctx context.Context, creatorEmail string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.code, COUNT(s.id)
		 FROM exam_configs e LEFT JOIN sessions s ON s.exam_code = e.code
		 WHERE e.creator_email = $1
		 GROUP BY e.code`, creatorEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		counts[code] = n
	}
	return counts, rows.Err()
}

func limitClause(argIdx int) string {
	return ` LIMIT $` + strconv.Itoa(argIdx)
}
