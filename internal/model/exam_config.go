package model

import (
	"strings"
	"time"
)

// ExamConfig is a recruiter-issued assessment reachable by its access code.
// It is never modified after creation.
type ExamConfig struct {
	Code          string     `json:"code"`
	CreatorEmail  string     `json:"creator_email"`
	CompanyName   string     `json:"company_name"`
	CompanyLogo   string     `json:"company_logo,omitempty"`
	Role          string     `json:"role"`
	Category      Category   `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	InvitedEmails []string   `json:"invited_emails,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsInvited reports whether email may take this exam. An empty invite list
// admits everyone; comparison is case-insensitive.
func (e *ExamConfig) IsInvited(email string) bool {
	if len(e.InvitedEmails) == 0 {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, invited := range e.InvitedEmails {
		if strings.ToLower(strings.TrimSpace(invited)) == email {
			return true
		}
	}
	return false
}

// Briefing strips recruiter-only fields.
func (e *ExamConfig) Briefing() ExamBriefing {
	return ExamBriefing{
		Code:        e.Code,
		CompanyName: e.CompanyName,
		CompanyLogo: e.CompanyLogo,
		Role:        e.Role,
		Category:    e.Category,
		Difficulty:  e.Difficulty,
	}
}

// ExamBriefing is the public view of an exam shown before login.
type ExamBriefing struct {
	Code        string     `json:"code"`
	CompanyName string     `json:"company_name"`
	CompanyLogo string     `json:"company_logo,omitempty"`
	Role        string     `json:"role"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
}

// CreateExamRequest is the payload for issuing a new assessment.
type CreateExamRequest struct {
	Role          string     `json:"role" binding:"required,min=2,max=100"`
	Category      Category   `json:"category" binding:"required,category"`
	Difficulty    Difficulty `json:"difficulty" binding:"required,difficulty"`
	InvitedEmails []string   `json:"invited_emails" binding:"omitempty,max=500,dive,email"`
}
