package service

import "errors"

// Domain errors shared by the services. Handlers map them to response codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionInvalidated = errors.New("session invalidated")
	ErrCandidateOnly      = errors.New("only candidates can take assessments")
	ErrExamNotFound       = errors.New("exam not found")
	ErrNotInvited         = errors.New("candidate is not invited to this exam")
	ErrNotExamOwner       = errors.New("not the owner of this exam")
	ErrInterviewActive    = errors.New("another interview is already active for this candidate")
	ErrCodeExhausted      = errors.New("could not allocate a unique access code")
)
