package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/validator"
)

// PracticeTools are the coding lab and resume analyzer.
type PracticeTools interface {
	CodingChallenge(ctx context.Context, email string, req model.CodingChallengeRequest) model.CodingChallenge
	ValidateCode(ctx context.Context, email string, req model.ValidateCodeRequest) model.CodeReview
	AnalyzeResume(ctx context.Context, email string, req model.AnalyzeResumeRequest) model.ResumeAnalysis
}

// PracticeHandler exposes the AI practice tools. The gateway never fails,
// so these endpoints only reject bad input.
type PracticeHandler struct {
	tools PracticeTools
}

func NewPracticeHandler(tools PracticeTools) *PracticeHandler {
	return &PracticeHandler{tools: tools}
}

// CodingChallenge godoc
// POST /api/v1/candidate/coding/challenge
func (h *PracticeHandler) CodingChallenge(c *gin.Context) {
	var req model.CodingChallengeRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}
	claims := middleware.GetClaims(c)
	response.Success(c, http.StatusOK, h.tools.CodingChallenge(c.Request.Context(), claims.Email, req))
}

// ValidateCode godoc
// POST /api/v1/candidate/coding/validate
func (h *PracticeHandler) ValidateCode(c *gin.Context) {
	var req model.ValidateCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	response.Success(c, http.StatusOK, h.tools.ValidateCode(c.Request.Context(), claims.Email, req))
}

// AnalyzeResume godoc
// POST /api/v1/candidate/resume/analyze
func (h *PracticeHandler) AnalyzeResume(c *gin.Context) {
	var req model.AnalyzeResumeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	response.Success(c, http.StatusOK, h.tools.AnalyzeResume(c.Request.Context(), claims.Email, req))
}
