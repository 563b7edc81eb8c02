package model

// SkillScore is one axis of the candidate skill matrix.
type SkillScore struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// Dashboard aggregates a candidate's history.
type Dashboard struct {
	TotalSessions int          `json:"total_sessions"`
	AverageScore  int          `json:"average_score"`
	Readiness     int          `json:"readiness"`
	Streak        int          `json:"streak"`
	TotalScore    int          `json:"total_score"`
	SkillMatrix   []SkillScore `json:"skill_matrix"`
	RecentTrend   []int        `json:"recent_trend"`
}

// LeaderboardEntry is one ranked row, derived on read.
type LeaderboardEntry struct {
	Rank     int           `json:"rank"`
	Name     string        `json:"name"`
	Email    string        `json:"email,omitempty"`
	Score    int           `json:"score"`
	ExamCode string        `json:"exam_code,omitempty"`
	Status   SessionStatus `json:"status,omitempty"`
}
