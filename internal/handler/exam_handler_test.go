package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hirepulse/hirepulse-backend/internal/export"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExams struct {
	created     model.CreateExamRequest
	creator     string
	briefingErr error
}

func (f *fakeExams) Create(_ context.Context, creatorEmail string, req model.CreateExamRequest) (*model.ExamConfig, error) {
	f.creator, f.created = creatorEmail, req
	return &model.ExamConfig{Code: "ABC123", CreatorEmail: creatorEmail, Role: req.Role}, nil
}

func (f *fakeExams) ListByCreator(_ context.Context, _ string, page, perPage int) ([]service.ExamSummary, *response.Pagination, error) {
	return []service.ExamSummary{}, &response.Pagination{Page: page, PerPage: perPage}, nil
}

func (f *fakeExams) Briefing(_ context.Context, code string) (*model.ExamBriefing, error) {
	if f.briefingErr != nil {
		return nil, f.briefingErr
	}
	return &model.ExamBriefing{Code: code}, nil
}

type fakeBoards struct {
	examErr  error
	examCode string
	scoped   bool
}

func (f *fakeBoards) Global(context.Context) ([]model.LeaderboardEntry, error) {
	return []model.LeaderboardEntry{{Rank: 1, Name: "Candidate 1234", Score: 90}}, nil
}

func (f *fakeBoards) ForExam(_ context.Context, _ string, code string) ([]model.LeaderboardEntry, error) {
	f.examCode = code
	return []model.LeaderboardEntry{}, f.examErr
}

func (f *fakeBoards) ForRecruiter(context.Context, string) ([]model.LeaderboardEntry, error) {
	f.scoped = true
	return []model.LeaderboardEntry{}, nil
}

func (f *fakeBoards) ExamSessions(_ context.Context, _ string, code string) (*model.ExamConfig, []model.Session, error) {
	if f.examErr != nil {
		return nil, nil, f.examErr
	}
	return &model.ExamConfig{Code: code, Role: "Backend Engineer"}, []model.Session{}, nil
}

type fakeCompanies struct{}

func (fakeCompanies) Get(_ context.Context, email string) (*model.Company, error) {
	return &model.Company{RecruiterEmail: email, Name: model.DefaultCompanyName}, nil
}

func (fakeCompanies) Update(_ context.Context, email string, req model.UpdateCompanyRequest) (*model.Company, error) {
	return &model.Company{RecruiterEmail: email, Name: req.Name, Logo: req.Logo}, nil
}

var recruiterClaims = &service.Claims{Email: "boss@corp.io", TokenType: service.TokenTypeRecruiter}

func TestExamHandler_CreateExam(t *testing.T) {
	exams := &fakeExams{}
	h := NewExamHandler(exams, &fakeBoards{}, fakeCompanies{}, zerolog.Nop())
	r := newTestRouter(http.MethodPost, "/exams", recruiterClaims, h.CreateExam)

	t.Run("rejects unknown category", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/exams", map[string]any{
			"role": "Backend Engineer", "category": "COOKING", "difficulty": "BEGINNER",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Contains(t, env.Error.Fields, "category")
	})

	t.Run("creates under the caller", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/exams", map[string]any{
			"role": "Backend Engineer", "category": "TECHNICAL", "difficulty": "EXPERT",
			"invited_emails": []string{"a@x.io"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "boss@corp.io", exams.creator)
		assert.Equal(t, []string{"a@x.io"}, exams.created.InvitedEmails)

		var exam model.ExamConfig
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &exam))
		assert.Equal(t, "ABC123", exam.Code)
	})
}

func TestExamHandler_Briefing(t *testing.T) {
	h := NewExamHandler(&fakeExams{briefingErr: service.ErrExamNotFound}, &fakeBoards{}, fakeCompanies{}, zerolog.Nop())
	r := newTestRouter(http.MethodGet, "/exams/:code", nil, h.GetBriefing)

	w := doJSON(r, http.MethodGet, "/exams/ZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrExamNotFound, errCode(t, w))
}

func TestExamHandler_Leaderboard(t *testing.T) {
	t.Run("scoped to one exam", func(t *testing.T) {
		boards := &fakeBoards{}
		h := NewExamHandler(&fakeExams{}, boards, fakeCompanies{}, zerolog.Nop())
		r := newTestRouter(http.MethodGet, "/leaderboard", recruiterClaims, h.Leaderboard)

		w := doJSON(r, http.MethodGet, "/leaderboard?exam=ABC123", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ABC123", boards.examCode)
		assert.False(t, boards.scoped)
	})

	t.Run("all owned exams", func(t *testing.T) {
		boards := &fakeBoards{}
		h := NewExamHandler(&fakeExams{}, boards, fakeCompanies{}, zerolog.Nop())
		r := newTestRouter(http.MethodGet, "/leaderboard", recruiterClaims, h.Leaderboard)

		w := doJSON(r, http.MethodGet, "/leaderboard", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, boards.scoped)
	})

	t.Run("foreign exam", func(t *testing.T) {
		h := NewExamHandler(&fakeExams{}, &fakeBoards{examErr: service.ErrNotExamOwner}, fakeCompanies{}, zerolog.Nop())
		r := newTestRouter(http.MethodGet, "/leaderboard", recruiterClaims, h.Leaderboard)

		w := doJSON(r, http.MethodGet, "/leaderboard?exam=ABC123", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, response.ErrNotExamOwner, errCode(t, w))
	})
}

func TestExamHandler_ExportResults(t *testing.T) {
	h := NewExamHandler(&fakeExams{}, &fakeBoards{}, fakeCompanies{}, zerolog.Nop())
	r := newTestRouter(http.MethodGet, "/exams/:code/export", recruiterClaims, h.ExportResults)

	w := doJSON(r, http.MethodGet, "/exams/ABC123/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), export.Filename("ABC123"))
	assert.NotZero(t, w.Body.Len())
}
