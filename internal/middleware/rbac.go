package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
)

// RequireTokenType admits only the listed token types. code is returned
// with 403 otherwise.
func RequireTokenType(code response.ErrCode, types ...service.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, t := range types {
			if claims.TokenType == t {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, code)
	}
}

// RequireCandidate admits regular candidate logins.
func RequireCandidate() gin.HandlerFunc {
	return RequireTokenType(response.ErrCandidateAccessOnly, service.TokenTypeCandidate)
}

// RequireInterviewee admits candidate logins and exam-context logins.
func RequireInterviewee() gin.HandlerFunc {
	return RequireTokenType(response.ErrCandidateAccessOnly, service.TokenTypeCandidate, service.TokenTypeExam)
}

// RequireRecruiter admits recruiter logins.
func RequireRecruiter() gin.HandlerFunc {
	return RequireTokenType(response.ErrRecruiterAccessOnly, service.TokenTypeRecruiter)
}
