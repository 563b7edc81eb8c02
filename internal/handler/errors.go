package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/interview"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
)

// errorStatus maps domain errors to an HTTP status and response code.
func errorStatus(err error) (int, response.ErrCode) {
	switch {
	// ─── Auth ──────────────────────────────────────────────────────────
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrInvalidCredentials
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, response.ErrEmailTaken
	case errors.Is(err, service.ErrSessionInvalidated):
		return http.StatusUnauthorized, response.ErrSessionInvalidated
	case errors.Is(err, service.ErrCandidateOnly):
		return http.StatusForbidden, response.ErrCandidateAccessOnly

	// ─── Exams ─────────────────────────────────────────────────────────
	case errors.Is(err, service.ErrExamNotFound):
		return http.StatusNotFound, response.ErrExamNotFound
	case errors.Is(err, service.ErrNotInvited), errors.Is(err, interview.ErrNotInvited):
		return http.StatusForbidden, response.ErrNotInvited
	case errors.Is(err, service.ErrNotExamOwner):
		return http.StatusForbidden, response.ErrNotExamOwner
	case errors.Is(err, service.ErrInterviewActive):
		return http.StatusConflict, response.ErrInterviewActive
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound

	// ─── Interview state machine ───────────────────────────────────────
	case errors.Is(err, interview.ErrInvalidParams):
		return http.StatusBadRequest, response.ErrValidation
	case errors.Is(err, interview.ErrIllegalTransition):
		return http.StatusConflict, response.ErrIllegalTransition
	case errors.Is(err, interview.ErrConsentRequired):
		return http.StatusConflict, response.ErrConsentRequired
	case errors.Is(err, interview.ErrCancelForbidden):
		return http.StatusForbidden, response.ErrCancelForbidden
	case errors.Is(err, interview.ErrExamLocked):
		return http.StatusConflict, response.ErrExamLocked
	case errors.Is(err, interview.ErrNoQuestions):
		return http.StatusServiceUnavailable, response.ErrNoQuestions
	case errors.Is(err, interview.ErrAnswerPending):
		return http.StatusConflict, response.ErrAnswerPending
	case errors.Is(err, interview.ErrSuspended):
		return http.StatusConflict, response.ErrSessionSuspended
	case errors.Is(err, interview.ErrClosed):
		return http.StatusGone, response.ErrSessionClosed
	}
	return http.StatusInternalServerError, response.ErrInternal
}

// fail writes the mapped error. Unmapped errors are logged by the caller.
func fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	response.Fail(c, status, code)
}
