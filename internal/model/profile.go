package model

import "time"

// Profile is a user's account and progress record. Keyed by lowercase email.
type Profile struct {
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            UserRole   `json:"role"`
	TargetRole      string     `json:"target_role"`
	Education       string     `json:"education"`
	Skills          []string   `json:"skills"`
	ExperienceLevel string     `json:"experience_level"`
	Avatar          string     `json:"avatar"`
	TotalScore      int        `json:"total_score"`
	Streak          int        `json:"streak"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	PasswordHash    string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// GuestProfile is returned for identities that have no stored profile.
func GuestProfile() Profile {
	return Profile{Name: "Guest", Role: RoleGuest, Skills: []string{}}
}

// SignUpRequest is the payload for creating a candidate or recruiter account.
type SignUpRequest struct {
	Email    string   `json:"email" binding:"required,email,max=254"`
	Password string   `json:"password" binding:"required,min=6,max=128"`
	Name     string   `json:"name" binding:"required,min=2,max=100"`
	Role     UserRole `json:"role" binding:"required,oneof=CANDIDATE RECRUITER"`
}

// LoginRequest is the payload for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// ExamLoginRequest authenticates a candidate into a single exam.
type ExamLoginRequest struct {
	Code     string `json:"code" binding:"required,accesscode"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// ExamLoginResponse carries the exam-context token and the exam briefing.
type ExamLoginResponse struct {
	Token   string       `json:"token"`
	Profile Profile      `json:"profile"`
	Exam    ExamBriefing `json:"exam"`
}

// UpdateProfileRequest edits the candidate-facing profile fields.
type UpdateProfileRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	TargetRole      string   `json:"target_role" binding:"omitempty,max=100"`
	Education       string   `json:"education" binding:"omitempty,max=200"`
	Skills          []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	ExperienceLevel string   `json:"experience_level" binding:"omitempty,max=50"`
	Avatar          string   `json:"avatar" binding:"omitempty,url,max=500"`
}
