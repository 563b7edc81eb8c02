package service

import (
	"context"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
)

const defaultTargetRole = "Software Engineer"

// PracticeGateway is the slice of the AI gateway the coding lab and resume
// analyzer use.
type PracticeGateway interface {
	GenerateCodingChallenge(ctx context.Context, role string) model.CodingChallenge
	ValidateCode(ctx context.Context, problem, language, code string) model.CodeReview
	AnalyzeResume(ctx context.Context, resumeText, targetRole string) model.ResumeAnalysis
}

// IdentityReporter resolves profiles and records score increments.
type IdentityReporter interface {
	ResolveActiveIdentity(ctx context.Context, email string) model.Profile
	ReportAnswer(ctx context.Context, email string, score int)
}

// PracticeService runs the self-directed tools outside the interview flow.
type PracticeService struct {
	gw    PracticeGateway
	shell IdentityReporter
	log   zerolog.Logger
}

func NewPracticeService(gw PracticeGateway, shell IdentityReporter, log zerolog.Logger) *PracticeService {
	return &PracticeService{gw: gw, shell: shell, log: log.With().Str("component", "practice_service").Logger()}
}

func (s *PracticeService) targetRole(ctx context.Context, email, requested string) string {
	if role := strings.TrimSpace(requested); role != "" {
		return role
	}
	if role := strings.TrimSpace(s.shell.ResolveActiveIdentity(ctx, email).TargetRole); role != "" {
		return role
	}
	return defaultTargetRole
}

// CodingChallenge generates a problem for the requested role or the
// candidate's target role.
func (s *PracticeService) CodingChallenge(ctx context.Context, email string, req model.CodingChallengeRequest) model.CodingChallenge {
	return s.gw.GenerateCodingChallenge(ctx, s.targetRole(ctx, email, req.Role))
}

// ValidateCode reviews a solution. A positive score counts towards the
// candidate's total like an interview answer.
func (s *PracticeService) ValidateCode(ctx context.Context, email string, req model.ValidateCodeRequest) model.CodeReview {
	review := s.gw.ValidateCode(ctx, req.Problem, strings.ToLower(req.Language), req.Code)
	if review.Score >= 1 {
		s.shell.ReportAnswer(ctx, email, review.Score)
	}
	s.log.Debug().Str("email", email).Str("status", review.Status).Int("score", review.Score).Msg("Code reviewed")
	return review
}

// AnalyzeResume reviews resume text against a target role.
func (s *PracticeService) AnalyzeResume(ctx context.Context, email string, req model.AnalyzeResumeRequest) model.ResumeAnalysis {
	return s.gw.AnalyzeResume(ctx, req.ResumeText, s.targetRole(ctx, email, req.TargetRole))
}
