package repository

import (
	"context"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles profile data access. Emails are stored lowercase.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `email, name, role, target_role, education, skills, experience_level,
	avatar, total_score, streak, last_activity_at, password_hash, created_at`

// GetByEmail retrieves a profile by its email key.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email,
	).Scan(&p.Email, &p.Name, &p.Role, &p.TargetRole, &p.Education, &p.Skills, &p.ExperienceLevel,
		&p.Avatar, &p.TotalScore, &p.Streak, &p.LastActivityAt, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (email, name, role, target_role, skills, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		p.Email, p.Name, p.Role, p.TargetRole, p.Skills, p.PasswordHash,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpsertRecruiter creates a recruiter or resets an existing recruiter's name and password.
func (r *ProfileRepository) UpsertRecruiter(ctx context.Context, email, name, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (email, name, role, password_hash)
		 VALUES ($1, $2, 'RECRUITER', $3)
		 ON CONFLICT (email) DO UPDATE
		 SET name = EXCLUDED.name, role = 'RECRUITER', password_hash = EXCLUDED.password_hash, updated_at = now()`,
		email, name, passwordHash,
	)
	return err
}

// UpdateDetails modifies the candidate-editable profile fields.
func (r *ProfileRepository) UpdateDetails(ctx context.Context, email string, req model.UpdateProfileRequest) error {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles
		 SET name = $1, target_role = $2, education = $3, skills = $4, experience_level = $5,
		     avatar = $6, updated_at = now()
		 WHERE email = $7`,
		req.Name, req.TargetRole, req.Education, skills, req.ExperienceLevel, req.Avatar, email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementScore adds score to the running total, bumps the streak and
// stamps the last activity in a single statement.
func (r *ProfileRepository) IncrementScore(ctx context.Context, email string, score int, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles
		 SET total_score = total_score + $1, streak = streak + 1, last_activity_at = $2, updated_at = now()
		 WHERE email = $3`,
		score, at, email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
