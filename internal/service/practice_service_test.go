package service

import (
	"context"
	"sync"
	"testing"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	review       model.CodeReview
	lastRole     string
	lastLanguage string
}

func (g *stubGateway) GenerateCodingChallenge(_ context.Context, role string) model.CodingChallenge {
	g.lastRole = role
	return model.CodingChallenge{ID: "code-1", Title: "Two Sum", Points: 50}
}

func (g *stubGateway) ValidateCode(_ context.Context, _, language, _ string) model.CodeReview {
	g.lastLanguage = language
	return g.review
}

func (g *stubGateway) AnalyzeResume(_ context.Context, _, targetRole string) model.ResumeAnalysis {
	g.lastRole = targetRole
	return model.ResumeAnalysis{Score: 50}
}

type stubShell struct {
	mu      sync.Mutex
	profile model.Profile
	reports []int
}

func (s *stubShell) ResolveActiveIdentity(context.Context, string) model.Profile { return s.profile }

func (s *stubShell) ReportAnswer(_ context.Context, _ string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, score)
}

func TestPracticeService_ValidateCodeReportsPositiveScores(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		reports []int
	}{
		{name: "accepted", score: 85, reports: []int{85}},
		{name: "minimal", score: 1, reports: []int{1}},
		{name: "zero", score: 0, reports: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &stubGateway{review: model.CodeReview{Status: "Accepted", Score: tt.score}}
			shell := &stubShell{}
			svc := NewPracticeService(gw, shell, zerolog.Nop())

			review := svc.ValidateCode(context.Background(), "ana@example.com", model.ValidateCodeRequest{
				Problem: "Return the indices of two numbers adding to target", Language: "Python", Code: "pass",
			})

			assert.Equal(t, tt.score, review.Score)
			assert.Equal(t, tt.reports, shell.reports)
			assert.Equal(t, "python", gw.lastLanguage)
		})
	}
}

func TestPracticeService_TargetRoleFallbacks(t *testing.T) {
	gw := &stubGateway{}
	shell := &stubShell{profile: model.Profile{TargetRole: "Data Scientist"}}
	svc := NewPracticeService(gw, shell, zerolog.Nop())
	ctx := context.Background()

	svc.CodingChallenge(ctx, "ana@example.com", model.CodingChallengeRequest{Role: "  Backend Engineer "})
	require.Equal(t, "Backend Engineer", gw.lastRole)

	svc.CodingChallenge(ctx, "ana@example.com", model.CodingChallengeRequest{})
	require.Equal(t, "Data Scientist", gw.lastRole)

	shell.profile = model.GuestProfile()
	svc.AnalyzeResume(ctx, "", model.AnalyzeResumeRequest{ResumeText: "resume"})
	require.Equal(t, defaultTargetRole, gw.lastRole)
}
