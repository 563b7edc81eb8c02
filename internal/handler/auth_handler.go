package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/hirepulse/hirepulse-backend/internal/validator"
	"github.com/rs/zerolog"
)

// Authenticator is the account side of the auth service.
type Authenticator interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*model.LoginResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	ExamLogin(ctx context.Context, req model.ExamLoginRequest) (*model.ExamLoginResponse, error)
	Logout(ctx context.Context, claims *service.Claims) error
}

// ProfileReader resolves the caller's profile.
type ProfileReader interface {
	Me(ctx context.Context, email string) model.Profile
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth     Authenticator
	profiles ProfileReader
	log      zerolog.Logger
}

func NewAuthHandler(auth Authenticator, profiles ProfileReader, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles, log: log.With().Str("component", "auth_handler").Logger()}
}

// SignUp godoc
// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.logUnexpected(err, "Sign up failed")
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login godoc
// POST /api/v1/auth/login
// A new login replaces any earlier login of the same account.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.logUnexpected(err, "Login failed")
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ExamLogin godoc
// POST /api/v1/auth/exam/login
// Opens an exam context: the token only admits the interview stream for
// this access code and is revoked when the session is finalized.
func (h *AuthHandler) ExamLogin(c *gin.Context) {
	var req model.ExamLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.ExamLogin(c.Request.Context(), req)
	if err != nil {
		h.logUnexpected(err, "Exam login failed")
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Str("email", claims.Email).Msg("Logout failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile":    h.profiles.Me(c.Request.Context(), claims.Email),
		"token_type": claims.TokenType,
		"exam_code":  claims.ExamCode,
	})
}

func (h *AuthHandler) logUnexpected(err error, msg string) {
	if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg(msg)
	}
}
