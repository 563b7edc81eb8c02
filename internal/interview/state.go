package interview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// Phase is the tag of the machine state.
type Phase string

const (
	PhaseConfiguring Phase = "CONFIGURING"
	PhaseLoading     Phase = "LOADING"
	PhaseBriefing    Phase = "BRIEFING"
	PhaseActive      Phase = "ACTIVE"
	PhaseSuspended   Phase = "SUSPENDED"
	PhaseReviewing   Phase = "REVIEWING"
	PhaseCancelled   Phase = "CANCELLED"
)

// State is the machine state. Index is only meaningful in PhaseActive.
type State struct {
	Phase Phase `json:"phase"`
	Index int   `json:"index"`
}

func (s State) String() string {
	if s.Phase == PhaseActive {
		return fmt.Sprintf("%s(%d)", s.Phase, s.Index)
	}
	return string(s.Phase)
}

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrExamLocked        = errors.New("exam parameters cannot be changed")
	ErrCancelForbidden   = errors.New("exam sessions cannot be cancelled")
	ErrConsentRequired   = errors.New("guidelines must be accepted first")
	ErrNoQuestions       = errors.New("no questions were generated")
	ErrAnswerPending     = errors.New("an answer for this question is already being evaluated")
	ErrSuspended         = errors.New("session was suspended")
	ErrNotInvited        = errors.New("candidate is not invited to this exam")
	ErrInvalidParams     = errors.New("invalid interview parameters")
	ErrClosed            = errors.New("session is closed")
)

func illegal(op string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, op, from)
}

// Params selects what kind of interview is generated.
type Params struct {
	Role       string           `json:"role"`
	Category   model.Category   `json:"category"`
	Difficulty model.Difficulty `json:"difficulty"`
}

func (p Params) validate() error {
	if strings.TrimSpace(p.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidParams)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidParams, p.Category)
	}
	if !p.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidParams, p.Difficulty)
	}
	return nil
}

// Identity is the candidate a machine acts for.
type Identity struct {
	Email string
	Name  string
}

// EventKind tags observer notifications.
type EventKind string

const (
	EventStateChanged   EventKind = "state_changed"
	EventAnswerRecorded EventKind = "answer_recorded"
	EventSuspended      EventKind = "suspended"
	EventCompleted      EventKind = "completed"
)

// Event is delivered to the observer after every transition, in order.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Answer   *model.AnswerRecord
	Session  *model.Session
}
