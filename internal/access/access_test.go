package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProfiles struct {
	profiles map[string]*model.Profile
	err      error
	incs     []int
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profiles[email], nil
}

func (m *memProfiles) IncrementScore(_ context.Context, email string, score int, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	p := m.profiles[email]
	p.TotalScore += score
	p.Streak++
	p.LastActivityAt = &at
	m.incs = append(m.incs, score)
	return nil
}

type memExams struct {
	exams map[string]*model.ExamConfig
	err   error
	asked []string
}

func (m *memExams) GetByCode(_ context.Context, code string) (*model.ExamConfig, error) {
	m.asked = append(m.asked, code)
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.exams[code]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

type memSink struct {
	sessions []model.Session
	err      error
}

func (m *memSink) EnqueueSession(_ context.Context, s model.Session) error {
	if m.err != nil {
		return m.err
	}
	m.sessions = append(m.sessions, s)
	return nil
}

func newShell() (*Shell, *memProfiles, *memExams, *memSink) {
	profiles := &memProfiles{profiles: map[string]*model.Profile{
		"ana@example.com": {Email: "ana@example.com", Name: "Ana", Role: model.RoleCandidate},
	}}
	exams := &memExams{exams: map[string]*model.ExamConfig{
		"ABC123": {Code: "ABC123", InvitedEmails: []string{"Ana@Example.com", "ben@example.com"}},
		"OPEN42": {Code: "OPEN42"},
	}}
	sink := &memSink{}
	return NewShell(profiles, exams, sink, zerolog.Nop()), profiles, exams, sink
}

func TestGenerateAccessCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		assert.Len(t, code, AccessCodeLength)
		assert.True(t, ValidAccessCode(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestValidAccessCode(t *testing.T) {
	assert.True(t, ValidAccessCode("abc123"))
	assert.True(t, ValidAccessCode(" ZZZ999 "))
	assert.False(t, ValidAccessCode("ABC12"))
	assert.False(t, ValidAccessCode("ABC-12"))
	assert.Equal(t, "ABC123", NormalizeAccessCode(" abc123"))
}

func TestLookupExamByCode(t *testing.T) {
	shell, _, exams, _ := newShell()

	exam, ok := shell.LookupExamByCode(context.Background(), " abc123 ")
	require.True(t, ok)
	assert.Equal(t, "ABC123", exam.Code)
	assert.Equal(t, []string{"ABC123"}, exams.asked)

	_, ok = shell.LookupExamByCode(context.Background(), "NOPE99")
	assert.False(t, ok)

	_, ok = shell.LookupExamByCode(context.Background(), "bad")
	assert.False(t, ok, "malformed codes never reach the store")

	exams.err = errors.New("redis down")
	_, ok = shell.LookupExamByCode(context.Background(), "ABC123")
	assert.False(t, ok, "fails closed")
}

func TestIsInvited(t *testing.T) {
	shell, _, exams, _ := newShell()
	restricted := exams.exams["ABC123"]

	assert.True(t, shell.IsInvited(restricted, "ana@example.com"))
	assert.True(t, shell.IsInvited(restricted, "BEN@EXAMPLE.COM"))
	assert.False(t, shell.IsInvited(restricted, "eve@example.com"))
	assert.True(t, shell.IsInvited(exams.exams["OPEN42"], "eve@example.com"))
	assert.False(t, shell.IsInvited(nil, "ana@example.com"))
}

func TestResolveActiveIdentity(t *testing.T) {
	shell, profiles, _, _ := newShell()

	p := shell.ResolveActiveIdentity(context.Background(), "ANA@example.com")
	assert.Equal(t, "Ana", p.Name)

	assert.Equal(t, model.RoleGuest, shell.ResolveActiveIdentity(context.Background(), "who@example.com").Role)

	profiles.err = errors.New("db down")
	assert.Equal(t, model.RoleGuest, shell.ResolveActiveIdentity(context.Background(), "ana@example.com").Role)
}

func TestReportAnswer(t *testing.T) {
	shell, profiles, _, _ := newShell()

	shell.ReportAnswer(context.Background(), "Ana@Example.com", 70)
	shell.ReportAnswer(context.Background(), "ana@example.com", 0)

	p := profiles.profiles["ana@example.com"]
	assert.Equal(t, 70, p.TotalScore)
	assert.Equal(t, 2, p.Streak)
	assert.NotNil(t, p.LastActivityAt)

	profiles.err = errors.New("db down")
	assert.NotPanics(t, func() { shell.ReportAnswer(context.Background(), "ana@example.com", 10) })
}

func TestRecordSessionCompletion(t *testing.T) {
	shell, _, _, sink := newShell()

	stored, err := shell.RecordSessionCompletion(context.Background(), model.Session{UserEmail: "Ana@Example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "ana@example.com", stored.UserEmail)
	require.Len(t, sink.sessions, 1)
	assert.Equal(t, stored.ID, sink.sessions[0].ID)

	sink.err = errors.New("queue down")
	stored, err = shell.RecordSessionCompletion(context.Background(), model.Session{UserEmail: "ana@example.com"})
	assert.Error(t, err)
	assert.NotEmpty(t, stored.ID)
}
