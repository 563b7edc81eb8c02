package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/validator"
	"github.com/rs/zerolog"
)

// CandidateProfiles serves a candidate's own data.
type CandidateProfiles interface {
	Update(ctx context.Context, email string, req model.UpdateProfileRequest) (model.Profile, error)
	History(ctx context.Context, email string, limit int) ([]model.Session, error)
	Dashboard(ctx context.Context, email string) (model.Dashboard, error)
}

// CandidateHandler handles the candidate dashboard, history and profile.
type CandidateHandler struct {
	profiles CandidateProfiles
	log      zerolog.Logger
}

func NewCandidateHandler(profiles CandidateProfiles, log zerolog.Logger) *CandidateHandler {
	return &CandidateHandler{profiles: profiles, log: log.With().Str("component", "candidate_handler").Logger()}
}

// Dashboard godoc
// GET /api/v1/candidate/dashboard
func (h *CandidateHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	dash, err := h.profiles.Dashboard(c.Request.Context(), claims.Email)
	if err != nil {
		h.log.Error().Err(err).Str("email", claims.Email).Msg("Failed to build dashboard")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, dash)
}

// Sessions godoc
// GET /api/v1/candidate/sessions?limit=50
func (h *CandidateHandler) Sessions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sessions, err := h.profiles.History(c.Request.Context(), claims.Email, limit)
	if err != nil {
		h.log.Error().Err(err).Str("email", claims.Email).Msg("Failed to list sessions")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, sessions)
}

// UpdateProfile godoc
// PUT /api/v1/candidate/profile
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), claims.Email, req)
	if err != nil {
		status, _ := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("email", claims.Email).Msg("Failed to update profile")
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}
