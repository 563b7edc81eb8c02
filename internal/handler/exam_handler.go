package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/export"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/hirepulse/hirepulse-backend/internal/validator"
	"github.com/rs/zerolog"
)

// ExamIssuer creates and lists assessments.
type ExamIssuer interface {
	Create(ctx context.Context, creatorEmail string, req model.CreateExamRequest) (*model.ExamConfig, error)
	ListByCreator(ctx context.Context, creatorEmail string, page, perPage int) ([]service.ExamSummary, *response.Pagination, error)
	Briefing(ctx context.Context, code string) (*model.ExamBriefing, error)
}

// Leaderboards ranks sessions on read.
type Leaderboards interface {
	Global(ctx context.Context) ([]model.LeaderboardEntry, error)
	ForExam(ctx context.Context, recruiterEmail, code string) ([]model.LeaderboardEntry, error)
	ForRecruiter(ctx context.Context, recruiterEmail string) ([]model.LeaderboardEntry, error)
	ExamSessions(ctx context.Context, recruiterEmail, code string) (*model.ExamConfig, []model.Session, error)
}

// Companies manages recruiter branding.
type Companies interface {
	Get(ctx context.Context, recruiterEmail string) (*model.Company, error)
	Update(ctx context.Context, recruiterEmail string, req model.UpdateCompanyRequest) (*model.Company, error)
}

// ExamHandler serves the recruiter portal and the public exam endpoints.
type ExamHandler struct {
	exams        ExamIssuer
	leaderboards Leaderboards
	companies    Companies
	log          zerolog.Logger
}

func NewExamHandler(exams ExamIssuer, leaderboards Leaderboards, companies Companies, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		exams:        exams,
		leaderboards: leaderboards,
		companies:    companies,
		log:          log.With().Str("component", "exam_handler").Logger(),
	}
}

func (h *ExamHandler) failLogged(c *gin.Context, err error, msg string) {
	if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	}
	fail(c, err)
}

// ─── Public ─────────────────────────────────────────────────────────────

// GetBriefing godoc
// GET /api/v1/public/exams/:code
// Returns what a candidate sees before the exam login; never the invite list.
func (h *ExamHandler) GetBriefing(c *gin.Context) {
	b, err := h.exams.Briefing(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.failLogged(c, err, "Failed to load exam briefing")
		return
	}
	response.Success(c, http.StatusOK, b)
}

// GlobalLeaderboard godoc
// GET /api/v1/public/leaderboard
func (h *ExamHandler) GlobalLeaderboard(c *gin.Context) {
	entries, err := h.leaderboards.Global(c.Request.Context())
	if err != nil {
		h.failLogged(c, err, "Failed to build global leaderboard")
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// ─── Recruiter ──────────────────────────────────────────────────────────

// GetCompany godoc
// GET /api/v1/recruiter/company
func (h *ExamHandler) GetCompany(c *gin.Context) {
	claims := middleware.GetClaims(c)
	company, err := h.companies.Get(c.Request.Context(), claims.Email)
	if err != nil {
		h.failLogged(c, err, "Failed to load company")
		return
	}
	response.Success(c, http.StatusOK, company)
}

// UpdateCompany godoc
// PUT /api/v1/recruiter/company
func (h *ExamHandler) UpdateCompany(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.UpdateCompanyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	company, err := h.companies.Update(c.Request.Context(), claims.Email, req)
	if err != nil {
		h.failLogged(c, err, "Failed to update company")
		return
	}
	response.Success(c, http.StatusOK, company)
}

// CreateExam godoc
// POST /api/v1/recruiter/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.Create(c.Request.Context(), claims.Email, req)
	if err != nil {
		h.failLogged(c, err, "Failed to create exam")
		return
	}
	response.Success(c, http.StatusCreated, exam)
}

// ListExams godoc
// GET /api/v1/recruiter/exams?page=1&per_page=10
func (h *ExamHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	exams, pagination, err := h.exams.ListByCreator(c.Request.Context(), claims.Email, page, perPage)
	if err != nil {
		h.failLogged(c, err, "Failed to list exams")
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, exams, pagination)
}

// Leaderboard godoc
// GET /api/v1/recruiter/leaderboard?exam=CODE
// Without ?exam the board spans every exam the recruiter owns.
func (h *ExamHandler) Leaderboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var (
		entries []model.LeaderboardEntry
		err     error
	)
	if code := c.Query("exam"); code != "" {
		entries, err = h.leaderboards.ForExam(c.Request.Context(), claims.Email, code)
	} else {
		entries, err = h.leaderboards.ForRecruiter(c.Request.Context(), claims.Email)
	}
	if err != nil {
		h.failLogged(c, err, "Failed to build leaderboard")
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// ExportResults godoc
// GET /api/v1/recruiter/exams/:code/export
// Streams an XLSX workbook of the exam's sessions.
func (h *ExamHandler) ExportResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	exam, sessions, err := h.leaderboards.ExamSessions(c.Request.Context(), claims.Email, c.Param("code"))
	if err != nil {
		h.failLogged(c, err, "Failed to load exam sessions for export")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteExamResults(&buf, exam, sessions, time.Now()); err != nil {
		h.log.Error().Err(err).Str("exam_code", exam.Code).Msg("Failed to render export")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(exam.Code)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
