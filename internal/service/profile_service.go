package service

import (
	"context"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/hirepulse/hirepulse-backend/internal/scoring"
	"github.com/rs/zerolog"
)

const (
	dashboardSessionLimit = 1000
	historyDefaultLimit   = 50
	historyMaxLimit       = 200
)

// ProfileService serves the candidate's own profile, history and dashboard.
type ProfileService struct {
	profiles *repository.ProfileRepository
	sessions *repository.SessionRepository
	shell    *access.Shell
	log      zerolog.Logger
}

func NewProfileService(profiles *repository.ProfileRepository, sessions *repository.SessionRepository, shell *access.Shell, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		sessions: sessions,
		shell:    shell,
		log:      log.With().Str("component", "profile_service").Logger(),
	}
}

// Me resolves the caller's profile; unknown accounts read as guests.
func (s *ProfileService) Me(ctx context.Context, email string) model.Profile {
	return s.shell.ResolveActiveIdentity(ctx, email)
}

// Update edits the candidate-facing fields and returns the fresh profile.
func (s *ProfileService) Update(ctx context.Context, email string, req model.UpdateProfileRequest) (model.Profile, error) {
	email = access.NormalizeEmail(email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.profiles.UpdateDetails(ctx, email, req); err != nil {
		return model.Profile{}, err
	}
	return s.shell.ResolveActiveIdentity(ctx, email), nil
}

// History lists the candidate's sessions, newest first.
func (s *ProfileService) History(ctx context.Context, email string, limit int) ([]model.Session, error) {
	if limit < 1 {
		limit = historyDefaultLimit
	}
	limit = min(limit, historyMaxLimit)
	return s.sessions.ListByUser(ctx, access.NormalizeEmail(email), limit)
}

// Dashboard aggregates the candidate's sessions and profile counters.
func (s *ProfileService) Dashboard(ctx context.Context, email string) (model.Dashboard, error) {
	profile := s.shell.ResolveActiveIdentity(ctx, email)
	sessions, err := s.sessions.ListByUser(ctx, access.NormalizeEmail(email), dashboardSessionLimit)
	if err != nil {
		return model.Dashboard{}, err
	}
	return scoring.BuildDashboard(sessions, profile), nil
}
