// Package interview implements the per-candidate interview state machine:
// Configuring -> Loading -> Briefing -> Active(i) -> Reviewing, with
// Suspended reachable from Active for proctored exams.
package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/scoring"
	"github.com/rs/zerolog"
)

// DefaultQuestionTimeLimit is the per-question countdown.
const DefaultQuestionTimeLimit = 180 * time.Second

const emptyAnswerPlaceholder = "No answer provided."

const (
	skippedFeedback = "Question was passed by the candidate. Zero score attributed for this task."
	skippedWeakness = "Question was not attempted."
)

// Evaluator is the part of the AI gateway the machine depends on.
type Evaluator interface {
	GenerateQuestions(ctx context.Context, role string, category model.Category, difficulty model.Difficulty) []model.Question
	EvaluateAnswer(ctx context.Context, question, answer string, category model.Category) model.Evaluation
	IdealAnswer(ctx context.Context, question string, category model.Category) string
}

// Recorder receives score increments and completed sessions.
type Recorder interface {
	ReportAnswer(ctx context.Context, email string, score int)
	RecordSessionCompletion(ctx context.Context, session model.Session) (model.Session, error)
}

// Deps wires a machine to its collaborators. The observer runs with the
// notification lock held and must not call back into the machine.
type Deps struct {
	Evaluator         Evaluator
	Recorder          Recorder
	Clock             Clock
	QuestionTimeLimit time.Duration
	Observer          func(Event)
	Log               zerolog.Logger
}

// Outcome is the result of finalizing a session.
type Outcome struct {
	Session model.Session
	// EndExamContext is set for exam sessions: the exam login must be revoked.
	EndExamContext bool
	// PersistErr is the best-effort persistence failure, if any.
	PersistErr error
}

// Machine is safe for concurrent use. Gateway calls run without holding
// the lock; the evaluating flag keeps at most one in flight.
type Machine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	deps     Deps
	log      zerolog.Logger
	identity Identity
	exam     *model.ExamConfig

	ctx    context.Context
	cancel context.CancelFunc

	state      State
	params     Params
	configured bool
	consent    bool
	questions  []model.Question
	answers    []model.AnswerRecord
	startTime  time.Time
	deadline   time.Time
	lastErr    error
	closed     bool

	timer      Timer
	timerGen   uint64
	evaluating bool
	evalGen    uint64
	evalCancel context.CancelFunc
}

func newMachine(id Identity, exam *model.ExamConfig, deps Deps) *Machine {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.QuestionTimeLimit <= 0 {
		deps.QuestionTimeLimit = DefaultQuestionTimeLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		deps:     deps,
		identity: id,
		exam:     exam,
		ctx:      ctx,
		cancel:   cancel,
		state:    State{Phase: PhaseConfiguring},
	}
	m.log = deps.Log.With().Str("component", "interview").Str("email", id.Email).Logger()
	return m
}

// NewPractice creates a self-directed session starting in Configuring.
func NewPractice(id Identity, deps Deps) *Machine {
	return newMachine(id, nil, deps)
}

// NewExam creates a proctored session for an exam. The exam parameters are
// fixed, so the machine starts in Loading. The invite list is enforced here.
func NewExam(id Identity, exam *model.ExamConfig, deps Deps) (*Machine, error) {
	if exam == nil || !exam.IsInvited(id.Email) {
		return nil, ErrNotInvited
	}
	m := newMachine(id, exam, deps)
	m.params = Params{Role: exam.Role, Category: exam.Category, Difficulty: exam.Difficulty}
	m.configured = true
	m.state = State{Phase: PhaseLoading}
	m.log = m.log.With().Str("exam_code", exam.Code).Logger()
	return m, nil
}

// IsExam reports whether the machine carries an exam context.
func (m *Machine) IsExam() bool { return m.exam != nil }

// ExamCode returns the exam access code, or "" for practice sessions.
func (m *Machine) ExamCode() string {
	if m.exam == nil {
		return ""
	}
	return m.exam.Code
}

// ─── Configuring / Loading / Briefing ───────────────────────────────────

func (m *Machine) Configure(p Params) error {
	m.mu.Lock()
	if m.exam != nil && !m.closed {
		m.mu.Unlock()
		return ErrExamLocked
	}
	if err := m.guard("configure", PhaseConfiguring); err != nil {
		m.mu.Unlock()
		return err
	}
	p.Role = strings.TrimSpace(p.Role)
	if err := p.validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.params = p
	m.configured = true
	m.lastErr = nil
	m.emitLocked(Event{Kind: EventStateChanged})
	return nil
}

// Start generates the question set. On an empty set the machine returns to
// Configuring with ErrNoQuestions.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	ready := (m.state.Phase == PhaseConfiguring && m.configured) ||
		(m.state.Phase == PhaseLoading && m.exam != nil)
	if !ready || m.evaluating {
		err := illegal("start", m.state)
		m.mu.Unlock()
		return err
	}
	m.state = State{Phase: PhaseLoading}
	m.evaluating = true
	m.lastErr = nil
	params := m.params
	m.emitLocked(Event{Kind: EventStateChanged})

	questions := m.deps.Evaluator.GenerateQuestions(ctx, params.Role, params.Category, params.Difficulty)

	m.mu.Lock()
	m.evaluating = false
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if len(questions) == 0 {
		m.state = State{Phase: PhaseConfiguring}
		m.lastErr = ErrNoQuestions
		m.emitLocked(Event{Kind: EventStateChanged})
		return ErrNoQuestions
	}
	m.questions = questions
	m.state = State{Phase: PhaseBriefing}
	m.emitLocked(Event{Kind: EventStateChanged})
	return nil
}

// AcceptGuidelines records the consent required before Begin.
func (m *Machine) AcceptGuidelines() error {
	m.mu.Lock()
	if err := m.guard("accept_guidelines", PhaseBriefing); err != nil {
		m.mu.Unlock()
		return err
	}
	m.consent = true
	m.emitLocked(Event{Kind: EventStateChanged})
	return nil
}

// Begin enters Active(0) and starts the first countdown.
func (m *Machine) Begin() error {
	m.mu.Lock()
	if err := m.guard("begin", PhaseBriefing); err != nil {
		m.mu.Unlock()
		return err
	}
	if !m.consent {
		m.mu.Unlock()
		return ErrConsentRequired
	}
	m.startTime = m.deps.Clock.Now()
	m.enterActiveLocked(0)
	m.emitLocked(Event{Kind: EventStateChanged})
	return nil
}

// Cancel abandons a practice session before it becomes active.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.exam != nil {
		m.mu.Unlock()
		return ErrCancelForbidden
	}
	if m.state.Phase != PhaseConfiguring && m.state.Phase != PhaseBriefing {
		err := illegal("cancel", m.state)
		m.mu.Unlock()
		return err
	}
	m.state = State{Phase: PhaseCancelled}
	m.closed = true
	m.cancel()
	m.emitLocked(Event{Kind: EventStateChanged})
	return nil
}

// ─── Active ─────────────────────────────────────────────────────────────

// Submit answers the current question. An empty text is evaluated as
// "No answer provided.", which is also what timer expiry does.
func (m *Machine) Submit(ctx context.Context, text string) error {
	return m.answer(ctx, text, false, nil)
}

// Pass skips the current question with a zero score.
func (m *Machine) Pass(ctx context.Context) error {
	return m.answer(ctx, "", true, nil)
}

func (m *Machine) enterActiveLocked(i int) {
	m.state = State{Phase: PhaseActive, Index: i}
	m.timerGen++
	gen := m.timerGen
	m.deadline = m.deps.Clock.Now().Add(m.deps.QuestionTimeLimit)
	m.timer = m.deps.Clock.AfterFunc(m.deps.QuestionTimeLimit, func() { m.onTimeout(gen) })
}

func (m *Machine) stopTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.deadline = time.Time{}
}

func (m *Machine) onTimeout(gen uint64) {
	m.log.Debug().Uint64("timer_gen", gen).Msg("Question timer expired")
	_ = m.answer(m.ctx, "", false, &gen)
}

// answer claims the current question under the lock, evaluates it without
// the lock and records the result if the machine is still on that question.
// timerGen is non-nil for timer expiry and must match the live timer.
func (m *Machine) answer(ctx context.Context, text string, pass bool, timerGen *uint64) error {
	m.mu.Lock()
	if timerGen != nil && (*timerGen != m.timerGen || m.state.Phase != PhaseActive || m.evaluating) {
		m.mu.Unlock()
		return nil
	}
	if err := m.guard("answer", PhaseActive); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.evaluating {
		m.mu.Unlock()
		return ErrAnswerPending
	}

	index := m.state.Index
	question := m.questions[index]
	category := m.params.Category
	m.stopTimerLocked()
	m.evaluating = true
	m.evalGen++
	gen := m.evalGen
	evalCtx, cancel := context.WithCancel(ctx)
	m.evalCancel = cancel
	m.emitLocked(Event{Kind: EventStateChanged})
	defer cancel()

	var record model.AnswerRecord
	if pass {
		ideal := m.deps.Evaluator.IdealAnswer(evalCtx, question.Text, category)
		record = model.AnswerRecord{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			AnswerText:   model.SkippedAnswer,
			Score:        0,
			Feedback:     skippedFeedback,
			Evaluation: model.Evaluation{
				Sentiment:   "Neutral",
				Feedback:    skippedFeedback,
				Strengths:   []string{},
				Weaknesses:  []string{skippedWeakness},
				IdealAnswer: ideal,
			},
		}
	} else {
		text = strings.TrimSpace(text)
		evaluated := text
		if evaluated == "" {
			evaluated = emptyAnswerPlaceholder
		}
		ev := m.deps.Evaluator.EvaluateAnswer(evalCtx, question.Text, evaluated, category)
		ev.Score = max(0, min(100, ev.Score))
		record = model.AnswerRecord{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			AnswerText:   text,
			Score:        ev.Score,
			Feedback:     ev.Feedback,
			Evaluation:   ev,
		}
	}

	m.mu.Lock()
	if gen != m.evalGen || m.closed || m.state != (State{Phase: PhaseActive, Index: index}) {
		// Suspended or abandoned while evaluating: the result is discarded.
		m.mu.Unlock()
		return ErrSuspended
	}
	m.evaluating = false
	m.evalCancel = nil
	m.answers = append(m.answers, record)
	if index+1 < len(m.questions) {
		m.enterActiveLocked(index + 1)
	} else {
		m.state = State{Phase: PhaseReviewing}
	}
	// finalizing cancels m.ctx; the increment for this answer must still land
	reportCtx := context.WithoutCancel(m.ctx)
	m.emitLocked(Event{Kind: EventAnswerRecorded, Answer: &record})

	m.deps.Recorder.ReportAnswer(reportCtx, m.identity.Email, record.Score)
	return nil
}

// VisibilityLost suspends an active exam session. It is idempotent and a
// no-op for practice sessions or outside Active; it reports whether the
// call caused the transition.
func (m *Machine) VisibilityLost() bool {
	m.mu.Lock()
	if m.closed || m.exam == nil || m.state.Phase != PhaseActive {
		m.mu.Unlock()
		return false
	}
	m.stopTimerLocked()
	if m.evalCancel != nil {
		m.evalCancel()
		m.evalCancel = nil
	}
	m.evaluating = false
	m.evalGen++
	from := m.state
	m.state = State{Phase: PhaseSuspended}
	m.log.Warn().Str("from", from.String()).Int("answered", len(m.answers)).Msg("Visibility lost, session suspended")
	m.emitLocked(Event{Kind: EventSuspended})
	return true
}

// ─── Terminal ───────────────────────────────────────────────────────────

// Finalize emits the completed session from Reviewing.
func (m *Machine) Finalize(ctx context.Context) (Outcome, error) {
	return m.finish(ctx, PhaseReviewing, model.SessionStatusCompleted)
}

// FinalizeSuspension emits the violation session from Suspended with the
// answers recorded before the interruption.
func (m *Machine) FinalizeSuspension(ctx context.Context) (Outcome, error) {
	return m.finish(ctx, PhaseSuspended, model.SessionStatusViolationTabSwitch)
}

func (m *Machine) finish(ctx context.Context, from Phase, status model.SessionStatus) (Outcome, error) {
	m.mu.Lock()
	if err := m.guard("finalize", from); err != nil {
		m.mu.Unlock()
		return Outcome{}, err
	}
	m.closed = true
	session := m.sessionLocked(status)
	m.cancel()
	m.mu.Unlock()

	out := Outcome{Session: session, EndExamContext: m.exam != nil}
	stored, err := m.deps.Recorder.RecordSessionCompletion(ctx, session)
	if err != nil {
		m.log.Error().Err(err).Str("status", string(status)).Msg("Failed to record session completion")
		out.PersistErr = err
	}
	if stored.ID != "" {
		out.Session = stored
	}

	m.notify(Event{Kind: EventCompleted, Snapshot: m.Snapshot(), Session: &out.Session})
	return out, nil
}

func (m *Machine) sessionLocked(status model.SessionStatus) model.Session {
	answers := make([]model.AnswerRecord, len(m.answers))
	copy(answers, m.answers)
	s := model.Session{
		Category:      m.params.Category,
		Role:          m.params.Role,
		Difficulty:    m.params.Difficulty,
		StartTime:     m.startTime,
		Answers:       answers,
		QuestionCount: len(m.questions),
		UserEmail:     m.identity.Email,
		CandidateName: m.identity.Name,
		Status:        status,
		AverageScore:  scoring.AnswersAverage(answers),
		CreatedAt:     m.deps.Clock.Now(),
	}
	if m.exam != nil {
		s.ExamCode = m.exam.Code
		s.OwnerEmail = m.exam.CreatorEmail
	}
	return s
}

// Abandon tears the machine down without emitting a session, e.g. when the
// transport disconnects. It returns the state the machine was in.
func (m *Machine) Abandon() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		m.stopTimerLocked()
		if m.evalCancel != nil {
			m.evalCancel()
			m.evalCancel = nil
		}
		m.cancel()
	}
	return m.state
}

// ─── Helpers ────────────────────────────────────────────────────────────

func (m *Machine) guard(op string, want Phase) error {
	if m.closed {
		return ErrClosed
	}
	if m.state.Phase != want {
		return illegal(op, m.state)
	}
	return nil
}

// emitLocked fills the snapshot, releases m.mu and notifies the observer.
// notifyMu is taken before m.mu is released so observers see transitions
// in order.
func (m *Machine) emitLocked(ev Event) {
	ev.Snapshot = m.snapshotLocked()
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()
	if m.deps.Observer != nil {
		m.deps.Observer(ev)
	}
}

func (m *Machine) notify(ev Event) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if m.deps.Observer != nil {
		m.deps.Observer(ev)
	}
}
