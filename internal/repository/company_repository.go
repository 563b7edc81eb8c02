package repository

import (
	"context"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyRepository stores recruiter branding keyed by recruiter email.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Get returns the company profile or ErrNotFound.
func (r *CompanyRepository) Get(ctx context.Context, recruiterEmail string) (*model.Company, error) {
	c := &model.Company{RecruiterEmail: recruiterEmail}
	err := r.pool.QueryRow(ctx,
		`SELECT name, logo FROM companies WHERE recruiter_email = $1`, recruiterEmail,
	).Scan(&c.Name, &c.Logo)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// Upsert creates or replaces the company profile.
func (r *CompanyRepository) Upsert(ctx context.Context, c *model.Company) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO companies (recruiter_email, name, logo)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (recruiter_email) DO UPDATE
		 SET name = EXCLUDED.name, logo = EXCLUDED.logo, updated_at = now()`,
		c.RecruiterEmail, c.Name, c.Logo,
	)
	return err
}
