package interview

import (
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/scoring"
)

// Snapshot is a read-only view of the machine for transports.
type Snapshot struct {
	State         State                `json:"state"`
	Params        Params               `json:"params"`
	ExamCode      string               `json:"exam_code,omitempty"`
	CompanyName   string               `json:"company_name,omitempty"`
	Proctored     bool                 `json:"proctored"`
	ConsentGiven  bool                 `json:"consent_given"`
	Evaluating    bool                 `json:"evaluating"`
	QuestionCount int                  `json:"question_count"`
	Question      *model.Question      `json:"question,omitempty"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	AnsweredCount int                  `json:"answered_count"`
	Answers       []model.AnswerRecord `json:"answers,omitempty"`
	AverageScore  int                  `json:"average_score"`
	Error         string               `json:"error,omitempty"`
	Closed        bool                 `json:"closed"`
}

// Snapshot returns the current view. Answers are only included once the
// session can no longer change them.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		State:         m.state,
		Params:        m.params,
		Proctored:     m.exam != nil,
		ConsentGiven:  m.consent,
		Evaluating:    m.evaluating,
		QuestionCount: len(m.questions),
		AnsweredCount: len(m.answers),
		AverageScore:  scoring.AnswersAverage(m.answers),
		Closed:        m.closed,
	}
	if m.exam != nil {
		s.ExamCode = m.exam.Code
		s.CompanyName = m.exam.CompanyName
	}
	if m.lastErr != nil {
		s.Error = m.lastErr.Error()
	}
	if m.state.Phase == PhaseActive && m.state.Index < len(m.questions) {
		q := m.questions[m.state.Index]
		s.Question = &q
		if !m.deadline.IsZero() {
			d := m.deadline
			s.Deadline = &d
		}
	}
	if m.state.Phase == PhaseReviewing || m.state.Phase == PhaseSuspended {
		s.Answers = make([]model.AnswerRecord, len(m.answers))
		copy(s.Answers, m.answers)
	}
	return s
}
