package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrRecruiterAccessOnly ErrCode = "RECRUITER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotFound      ErrCode = "EXAM_NOT_FOUND"
	ErrNotInvited        ErrCode = "NOT_INVITED"
	ErrNotExamOwner      ErrCode = "NOT_EXAM_OWNER"
	ErrInterviewActive   ErrCode = "INTERVIEW_ALREADY_ACTIVE"
	ErrIllegalTransition ErrCode = "ILLEGAL_TRANSITION"
	ErrConsentRequired   ErrCode = "CONSENT_REQUIRED"
	ErrCancelForbidden   ErrCode = "CANCEL_FORBIDDEN"
	ErrExamLocked        ErrCode = "EXAM_PARAMETERS_LOCKED"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrAnswerPending     ErrCode = "ANSWER_PENDING"
	ErrSessionSuspended  ErrCode = "SESSION_SUSPENDED"
	ErrSessionClosed     ErrCode = "SESSION_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrEmailTaken:
		return "An account with this email already exists."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrCandidateAccessOnly:
		return "This resource is available to candidates only."
	case ErrRecruiterAccessOnly:
		return "This resource is available to recruiters only."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "One or more fields are invalid."
	case ErrInvalidPayload:
		return "The request payload could not be parsed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotFound:
		return "No assessment matches this access code."
	case ErrNotInvited:
		return "You are not invited to this assessment."
	case ErrNotExamOwner:
		return "This assessment belongs to another recruiter."
	case ErrInterviewActive:
		return "Another interview is already running for this account."
	case ErrIllegalTransition:
		return "This action is not available at the current step."
	case ErrConsentRequired:
		return "Accept the guidelines before starting."
	case ErrCancelForbidden:
		return "Proctored assessments cannot be cancelled."
	case ErrExamLocked:
		return "Assessment parameters are fixed by the recruiter."
	case ErrNoQuestions:
		return "No questions could be generated. Please try again."
	case ErrAnswerPending:
		return "Your previous answer is still being evaluated."
	case ErrSessionSuspended:
		return "The session was suspended."
	case ErrSessionClosed:
		return "The session is closed."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal error occurred."

	default:
		return "An unknown error occurred."
	}
}
