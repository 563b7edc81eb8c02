package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CompanyService manages recruiter branding.
type CompanyService struct {
	repo *repository.CompanyRepository
	log  zerolog.Logger
}

func NewCompanyService(repo *repository.CompanyRepository, log zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, log: log.With().Str("component", "company_service").Logger()}
}

// Get returns the recruiter's company, or the default branding if none is saved.
func (s *CompanyService) Get(ctx context.Context, recruiterEmail string) (*model.Company, error) {
	recruiterEmail = access.NormalizeEmail(recruiterEmail)
	c, err := s.repo.Get(ctx, recruiterEmail)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.Company{RecruiterEmail: recruiterEmail, Name: model.DefaultCompanyName}, nil
	}
	return c, err
}

// Update saves the company profile. Existing exams keep the branding they
// were issued with.
func (s *CompanyService) Update(ctx context.Context, recruiterEmail string, req model.UpdateCompanyRequest) (*model.Company, error) {
	c := &model.Company{
		RecruiterEmail: access.NormalizeEmail(recruiterEmail),
		Name:           strings.TrimSpace(req.Name),
		Logo:           strings.TrimSpace(req.Logo),
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("recruiter", c.RecruiterEmail).Msg("Company profile updated")
	return c, nil
}
