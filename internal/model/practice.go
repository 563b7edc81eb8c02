package model

// StarterCode holds the per-language skeletons of a coding challenge.
type StarterCode struct {
	Python string `json:"python"`
	Java   string `json:"java"`
	Cpp    string `json:"cpp"`
}

// CodingChallenge is a generated coding-lab problem.
type CodingChallenge struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Difficulty  string      `json:"difficulty"`
	Points      int         `json:"points"`
	Description string      `json:"description"`
	StarterCode StarterCode `json:"starter_code"`
}

// CodeReview is the static AI review of a submitted solution. No code is executed.
type CodeReview struct {
	Status          string `json:"status"`
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
	Score           int    `json:"score"`
	OptimalSolution string `json:"optimal_solution"`
	Feedback        string `json:"feedback"`
}

// ResumeAnalysis is the AI review of a resume against a target role.
type ResumeAnalysis struct {
	Score                 int      `json:"score"`
	Summary               string   `json:"summary"`
	SuggestedImprovements []string `json:"suggested_improvements"`
	MatchingScore         int      `json:"matching_score"`
	SkillGaps             []string `json:"skill_gaps"`
	SuggestedRoles        []string `json:"suggested_roles"`
}

// CodingChallengeRequest asks for a new challenge; role defaults to the profile's target role.
type CodingChallengeRequest struct {
	Role string `json:"role" binding:"omitempty,max=100"`
}

// ValidateCodeRequest submits a solution for review.
type ValidateCodeRequest struct {
	Problem  string `json:"problem" binding:"required,min=10,max=8000"`
	Language string `json:"language" binding:"required,language"`
	Code     string `json:"code" binding:"required,min=1,max=20000"`
}

// AnalyzeResumeRequest submits resume text for review.
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resume_text" binding:"required,min=50,max=50000"`
	TargetRole string `json:"target_role" binding:"omitempty,max=100"`
}
