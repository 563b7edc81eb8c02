package service

import (
	"context"

	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/hirepulse/hirepulse-backend/internal/scoring"
)

const (
	// globalLeaderboardWindow is how many recent sessions the public board ranks.
	globalLeaderboardWindow = 200
	recruiterSessionLimit   = 5000
)

// LeaderboardService ranks sessions on read; nothing is stored.
type LeaderboardService struct {
	sessions *repository.SessionRepository
	exams    *ExamService
}

func NewLeaderboardService(sessions *repository.SessionRepository, exams *ExamService) *LeaderboardService {
	return &LeaderboardService{sessions: sessions, exams: exams}
}

// Global ranks the most recent sessions across all candidates. Emails are
// not exposed on the public board.
func (s *LeaderboardService) Global(ctx context.Context) ([]model.LeaderboardEntry, error) {
	sessions, err := s.sessions.ListRecent(ctx, globalLeaderboardWindow)
	if err != nil {
		return nil, err
	}
	entries := scoring.Leaderboard(sessions, scoring.Filter{})
	for i := range entries {
		entries[i].Email = ""
	}
	return entries, nil
}

// ForExam ranks one exam's sessions for the recruiter who owns it.
func (s *LeaderboardService) ForExam(ctx context.Context, recruiterEmail, code string) ([]model.LeaderboardEntry, error) {
	exam, err := s.exams.GetOwned(ctx, recruiterEmail, code)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByExam(ctx, exam.Code)
	if err != nil {
		return nil, err
	}
	return scoring.Leaderboard(sessions, scoring.Filter{ExamCode: exam.Code}), nil
}

// ForRecruiter ranks sessions across every exam the recruiter owns.
func (s *LeaderboardService) ForRecruiter(ctx context.Context, recruiterEmail string) ([]model.LeaderboardEntry, error) {
	recruiterEmail = access.NormalizeEmail(recruiterEmail)
	codes, err := s.exams.ListCodes(ctx, recruiterEmail)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByOwner(ctx, recruiterEmail, recruiterSessionLimit)
	if err != nil {
		return nil, err
	}
	return scoring.Leaderboard(sessions, scoring.Filter{ExamCodes: codes}), nil
}

// ExamSessions returns the raw sessions of an owned exam, in completion order.
func (s *LeaderboardService) ExamSessions(ctx context.Context, recruiterEmail, code string) (*model.ExamConfig, []model.Session, error) {
	exam, err := s.exams.GetOwned(ctx, recruiterEmail, code)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.sessions.ListByExam(ctx, exam.Code)
	if err != nil {
		return nil, nil, err
	}
	return exam, sessions, nil
}
