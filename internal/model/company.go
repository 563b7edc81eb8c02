package model

// DefaultCompanyName is used when a recruiter has not set up a company profile.
const DefaultCompanyName = "My Organization"

// Company is the branding a recruiter's exams are shown with.
type Company struct {
	RecruiterEmail string `json:"recruiter_email"`
	Name           string `json:"name"`
	Logo           string `json:"logo"`
}

// UpdateCompanyRequest is the payload for saving the company profile.
type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
	Logo string `json:"logo" binding:"omitempty,url,max=500"`
}
