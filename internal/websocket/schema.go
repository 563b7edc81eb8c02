package websocket

import (
	"github.com/hirepulse/hirepulse-backend/internal/interview"
	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionConfigure        Action = "configure"
	ActionStart            Action = "start"
	ActionAcceptGuidelines Action = "accept_guidelines"
	ActionBegin            Action = "begin"
	ActionSubmit           Action = "submit"
	ActionPass             Action = "pass"
	ActionVisibility       Action = "visibility"
	ActionFinalize         Action = "finalize"
	ActionCancel           Action = "cancel"
	ActionState            Action = "state"
	ActionPing             Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ConfigureRequest selects the practice interview parameters.
type ConfigureRequest struct {
	Action     Action           `json:"action"`
	Role       string           `json:"role"`
	Category   model.Category   `json:"category"`
	Difficulty model.Difficulty `json:"difficulty"`
}

// SubmitRequest answers the current question.
type SubmitRequest struct {
	Action Action `json:"action"`
	Answer string `json:"answer"`
}

// VisibilityRequest reports a page visibility change. Only "hidden" matters.
type VisibilityRequest struct {
	Action Action `json:"action"`
	State  string `json:"state"`
}

const VisibilityHidden = "hidden"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState          Event = "state"
	EventAnswerRecorded Event = "answer_recorded"
	EventCompleted      Event = "completed"
	EventError          Event = "error"
	EventPong           Event = "pong"
)

// StateResponse carries the machine snapshot after a transition.
type StateResponse struct {
	Event    Event              `json:"event"`
	Snapshot interview.Snapshot `json:"snapshot"`
}

// AnswerRecordedResponse carries the evaluated answer and the next state.
type AnswerRecordedResponse struct {
	Event    Event              `json:"event"`
	Answer   model.AnswerRecord `json:"answer"`
	Snapshot interview.Snapshot `json:"snapshot"`
}

// CompletedResponse carries the emitted session.
type CompletedResponse struct {
	Event     Event              `json:"event"`
	Session   model.Session      `json:"session"`
	Snapshot  interview.Snapshot `json:"snapshot"`
	Persisted bool               `json:"persisted"`
}

type ErrorResponse struct {
	Event   Event  `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
