// Package access is the identity and access shell around the interview
// core. Every lookup fails closed: errors read as "not found".
package access

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
)

// ProfileStore reads profiles and applies per-answer progress.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	IncrementScore(ctx context.Context, email string, score int, at time.Time) error
}

// ExamStore resolves exam configurations by access code.
type ExamStore interface {
	GetByCode(ctx context.Context, code string) (*model.ExamConfig, error)
}

// SessionSink accepts completed sessions for persistence.
type SessionSink interface {
	EnqueueSession(ctx context.Context, s model.Session) error
}

// Shell implements the identity/access contract used by the interview machine.
type Shell struct {
	profiles ProfileStore
	exams    ExamStore
	sessions SessionSink
	log      zerolog.Logger
	now      func() time.Time
}

func NewShell(profiles ProfileStore, exams ExamStore, sessions SessionSink, log zerolog.Logger) *Shell {
	return &Shell{
		profiles: profiles,
		exams:    exams,
		sessions: sessions,
		log:      log.With().Str("component", "access_shell").Logger(),
		now:      time.Now,
	}
}

// ResolveActiveIdentity returns the stored profile or a guest profile.
func (s *Shell) ResolveActiveIdentity(ctx context.Context, email string) model.Profile {
	email = NormalizeEmail(email)
	if email == "" {
		return model.GuestProfile()
	}
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil || p == nil {
		if err != nil {
			s.log.Debug().Err(err).Str("email", email).Msg("Profile lookup failed, resolving as guest")
		}
		return model.GuestProfile()
	}
	return *p
}

// IsInvited applies the exam's allow-list. A nil exam admits nobody.
func (s *Shell) IsInvited(exam *model.ExamConfig, email string) bool {
	if exam == nil {
		return false
	}
	return exam.IsInvited(email)
}

// LookupExamByCode normalises the code and returns the exam, or false.
func (s *Shell) LookupExamByCode(ctx context.Context, code string) (*model.ExamConfig, bool) {
	code = NormalizeAccessCode(code)
	if !ValidAccessCode(code) {
		return nil, false
	}
	exam, err := s.exams.GetByCode(ctx, code)
	if err != nil || exam == nil {
		if err != nil {
			s.log.Debug().Err(err).Str("exam_code", code).Msg("Exam lookup failed")
		}
		return nil, false
	}
	return exam, true
}

// ReportAnswer adds the score to the profile total, bumps the streak and
// stamps the last activity. Failures are logged only.
func (s *Shell) ReportAnswer(ctx context.Context, email string, score int) {
	email = NormalizeEmail(email)
	if err := s.profiles.IncrementScore(ctx, email, score, s.now()); err != nil {
		s.log.Error().Err(err).Str("email", email).Int("score", score).Msg("Failed to record answer score")
	}
}

// RecordSessionCompletion assigns the session id and hands it to the
// persistence queue. The returned session carries the id even on error.
func (s *Shell) RecordSessionCompletion(ctx context.Context, session model.Session) (model.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	session.UserEmail = NormalizeEmail(session.UserEmail)
	if err := s.sessions.EnqueueSession(ctx, session); err != nil {
		return session, err
	}
	s.log.Info().
		Str("session_id", session.ID).
		Str("email", session.UserEmail).
		Str("exam_code", session.ExamCode).
		Str("status", string(session.Status)).
		Int("answers", len(session.Answers)).
		Msg("Session recorded")
	return session, nil
}
