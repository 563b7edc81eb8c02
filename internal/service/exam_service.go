package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// maxCodeAttempts bounds access-code regeneration on collision.
const maxCodeAttempts = 5

// ExamSummary is a recruiter's view of one exam.
type ExamSummary struct {
	model.ExamConfig
	SessionCount int `json:"session_count"`
}

// ExamService issues assessments and serves them from the Redis fast lane.
type ExamService struct {
	examRepo    *repository.ExamRepository
	companyRepo *repository.CompanyRepository
	rdb         *redis.Client
	cacheTTL    time.Duration
	log         zerolog.Logger
	newCode     func() (string, error)
}

func NewExamService(
	examRepo *repository.ExamRepository,
	companyRepo *repository.CompanyRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:    examRepo,
		companyRepo: companyRepo,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		log:         log.With().Str("component", "exam_service").Logger(),
		newCode:     access.GenerateAccessCode,
	}
}

// Create issues a new exam under a fresh access code, branded with the
// recruiter's company profile.
func (s *ExamService) Create(ctx context.Context, creatorEmail string, req model.CreateExamRequest) (*model.ExamConfig, error) {
	creatorEmail = access.NormalizeEmail(creatorEmail)
	companyName, companyLogo := model.DefaultCompanyName, ""
	company, err := s.companyRepo.Get(ctx, creatorEmail)
	switch {
	case err == nil:
		companyName, companyLogo = company.Name, company.Logo
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get company: %w", err)
	}

	exam := &model.ExamConfig{
		CreatorEmail:  creatorEmail,
		CompanyName:   companyName,
		CompanyLogo:   companyLogo,
		Role:          strings.TrimSpace(req.Role),
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		InvitedEmails: normalizeInvites(req.InvitedEmails),
	}

	for attempt := 1; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate access code: %w", err)
		}
		exam.Code = code
		err = s.examRepo.Create(ctx, exam)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, fmt.Errorf("create exam: %w", err)
		}
		if attempt >= maxCodeAttempts {
			return nil, ErrCodeExhausted
		}
		s.log.Warn().Str("exam_code", code).Int("attempt", attempt).Msg("Access code collision, regenerating")
	}

	s.cache(ctx, exam)
	s.log.Info().
		Str("exam_code", exam.Code).
		Str("creator", creatorEmail).
		Int("invited", len(exam.InvitedEmails)).
		Msg("Exam created")
	return exam, nil
}

// normalizeInvites lowercases, trims and dedupes the allow-list. An empty
// result means the exam is open to every candidate.
func normalizeInvites(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = access.NormalizeEmail(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GetByCode returns an exam from the cache, falling back to Postgres and
// re-warming the cache. Exams are immutable so the cache never goes stale.
func (s *ExamService) GetByCode(ctx context.Context, code string) (*model.ExamConfig, error) {
	code = access.NormalizeAccessCode(code)
	key := config.CacheKey.ExamConfigKey(code)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var exam model.ExamConfig
		if jsonErr := json.Unmarshal(raw, &exam); jsonErr == nil {
			return &exam, nil
		}
		s.log.Warn().Str("exam_code", code).Msg("Corrupt exam cache entry, reloading")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("exam_code", code).Msg("Exam cache read failed")
	}

	exam, err := s.examRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	s.cache(ctx, exam)
	return exam, nil
}

func (s *ExamService) cache(ctx context.Context, exam *model.ExamConfig) {
	data, err := json.Marshal(exam)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamConfigKey(exam.Code), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_code", exam.Code).Msg("Failed to cache exam")
	}
}

// GetOwned returns the exam if it belongs to the recruiter.
func (s *ExamService) GetOwned(ctx context.Context, recruiterEmail, code string) (*model.ExamConfig, error) {
	exam, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(exam.CreatorEmail, recruiterEmail) {
		return nil, ErrNotExamOwner
	}
	return exam, nil
}

// Briefing is the public exam view shown before login.
func (s *ExamService) Briefing(ctx context.Context, code string) (*model.ExamBriefing, error) {
	if !access.ValidAccessCode(code) {
		return nil, ErrExamNotFound
	}
	exam, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	b := exam.Briefing()
	return &b, nil
}

// ListByCreator lists a recruiter's exams with their completed-session counts.
func (s *ExamService) ListByCreator(ctx context.Context, creatorEmail string, page, perPage int) ([]ExamSummary, *response.Pagination, error) {
	page, perPage = response.ClampPage(page, perPage)
	creatorEmail = access.NormalizeEmail(creatorEmail)

	exams, total, err := s.examRepo.ListByCreatorPaginated(ctx, creatorEmail, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.examRepo.CountSessions(ctx, creatorEmail)
	if err != nil {
		s.log.Warn().Err(err).Str("creator", creatorEmail).Msg("Failed to count exam sessions")
		counts = map[string]int{}
	}

	out := make([]ExamSummary, 0, len(exams))
	for _, e := range exams {
		out = append(out, ExamSummary{ExamConfig: e, SessionCount: counts[e.Code]})
	}

	return out, response.NewPagination(page, perPage, total), nil
}

// ListCodes returns every access code owned by a recruiter.
func (s *ExamService) ListCodes(ctx context.Context, creatorEmail string) ([]string, error) {
	return s.examRepo.ListCodesByCreator(ctx, access.NormalizeEmail(creatorEmail))
}
