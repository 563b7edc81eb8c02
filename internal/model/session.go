package model

import "time"

// SessionStatus is the terminal outcome of a session.
type SessionStatus string

const (
	SessionStatusCompleted          SessionStatus = "COMPLETED"
	SessionStatusViolationTabSwitch SessionStatus = "VIOLATION_TAB_SWITCH"
)

// Session is the persisted record of one interview attempt. Written once.
type Session struct {
	ID            string         `json:"id"`
	Category      Category       `json:"category"`
	Role          string         `json:"role"`
	Difficulty    Difficulty     `json:"difficulty"`
	StartTime     time.Time      `json:"start_time"`
	Answers       []AnswerRecord `json:"answers"`
	QuestionCount int            `json:"question_count"`
	ExamCode      string         `json:"exam_code,omitempty"`
	OwnerEmail    string         `json:"owner_email,omitempty"`
	UserEmail     string         `json:"user_email"`
	CandidateName string         `json:"candidate_name,omitempty"`
	Status        SessionStatus  `json:"status"`
	AverageScore  int            `json:"average_score"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ProctoringEventKind enumerates recorded proctoring signals.
type ProctoringEventKind string

const (
	ProctoringVisibilityHidden ProctoringEventKind = "visibility_hidden"
	ProctoringDisconnected     ProctoringEventKind = "disconnected"
)

// ProctoringEvent is an audit record of a proctoring signal during an exam.
type ProctoringEvent struct {
	ExamCode      string              `json:"exam_code"`
	Email         string              `json:"email"`
	QuestionIndex int                 `json:"question_index"`
	Kind          ProctoringEventKind `json:"kind"`
	RecordedAt    time.Time           `json:"recorded_at"`
}
