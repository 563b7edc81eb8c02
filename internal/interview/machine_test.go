package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────────────────

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs the most recent timer callback, even if it was stopped, to
// model a timer that already started running when Stop was called.
func (c *fakeClock) fire() {
	c.mu.Lock()
	t := c.timers[len(c.timers)-1]
	c.mu.Unlock()
	t.f()
}

type fakeEvaluator struct {
	mu        sync.Mutex
	count     int
	answers   []string
	gate      chan struct{}
	entered   chan struct{}
	honourCtx bool
}

func (e *fakeEvaluator) GenerateQuestions(_ context.Context, role string, category model.Category, difficulty model.Difficulty) []model.Question {
	qs := make([]model.Question, e.count)
	for i := range qs {
		qs[i] = model.Question{ID: fmt.Sprintf("q%d", i), Text: fmt.Sprintf("%s question %d", role, i), Category: category, Difficulty: difficulty}
	}
	return qs
}

func (e *fakeEvaluator) EvaluateAnswer(ctx context.Context, _, answer string, _ model.Category) model.Evaluation {
	e.mu.Lock()
	e.answers = append(e.answers, answer)
	e.mu.Unlock()
	if e.entered != nil {
		e.entered <- struct{}{}
	}
	if e.gate != nil {
		if e.honourCtx {
			select {
			case <-e.gate:
			case <-ctx.Done():
			}
		} else {
			<-e.gate
		}
	}
	return model.Evaluation{Score: len(answer), Feedback: "ok"}
}

func (e *fakeEvaluator) IdealAnswer(context.Context, string, model.Category) string {
	return "ideal"
}

type fakeRecorder struct {
	mu         sync.Mutex
	reports    []int
	reportErrs []error
	sessions   []model.Session
	err        error

	// entered and gate hold ReportAnswer open when set.
	entered chan struct{}
	gate    chan struct{}
}

func (r *fakeRecorder) ReportAnswer(ctx context.Context, _ string, score int) {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, score)
	r.reportErrs = append(r.reportErrs, ctx.Err())
}

func (r *fakeRecorder) RecordSessionCompletion(_ context.Context, s model.Session) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return model.Session{}, r.err
	}
	s.ID = fmt.Sprintf("session-%d", len(r.sessions)+1)
	r.sessions = append(r.sessions, s)
	return s, nil
}

type harness struct {
	clock    *fakeClock
	eval     *fakeEvaluator
	recorder *fakeRecorder
	events   []Event
	mu       sync.Mutex
}

func newHarness(questions int) *harness {
	return &harness{
		clock:    &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		eval:     &fakeEvaluator{count: questions},
		recorder: &fakeRecorder{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Evaluator: h.eval,
		Recorder:  h.recorder,
		Clock:     h.clock,
		Observer: func(ev Event) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.events = append(h.events, ev)
		},
		Log: zerolog.Nop(),
	}
}

var candidate = Identity{Email: "ana@example.com", Name: "Ana"}

func testExam() *model.ExamConfig {
	return &model.ExamConfig{
		Code:          "ABC123",
		CreatorEmail:  "hr@acme.io",
		CompanyName:   "Acme",
		Role:          "Backend Developer",
		Category:      model.CategoryTechnical,
		Difficulty:    model.DifficultyExpert,
		InvitedEmails: []string{"Ana@Example.com"},
	}
}

func activePractice(t *testing.T, h *harness) *Machine {
	t.Helper()
	m := NewPractice(candidate, h.deps())
	require.NoError(t, m.Configure(Params{Role: "QA Engineer", Category: model.CategoryCoding, Difficulty: model.DifficultyBeginner}))
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.AcceptGuidelines())
	require.NoError(t, m.Begin())
	return m
}

func activeExam(t *testing.T, h *harness) *Machine {
	t.Helper()
	m, err := NewExam(candidate, testExam(), h.deps())
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.AcceptGuidelines())
	require.NoError(t, m.Begin())
	return m
}

// ─── Tests ──────────────────────────────────────────────────────────────

func TestPracticeHappyPath(t *testing.T) {
	h := newHarness(3)
	m := NewPractice(candidate, h.deps())

	assert.Equal(t, PhaseConfiguring, m.Snapshot().State.Phase)
	require.NoError(t, m.Configure(Params{Role: "QA Engineer", Category: model.CategoryCoding, Difficulty: model.DifficultyBeginner}))
	require.NoError(t, m.Start(context.Background()))
	assert.Equal(t, PhaseBriefing, m.Snapshot().State.Phase)

	assert.ErrorIs(t, m.Begin(), ErrConsentRequired)
	require.NoError(t, m.AcceptGuidelines())
	require.NoError(t, m.Begin())
	assert.Equal(t, State{Phase: PhaseActive, Index: 0}, m.Snapshot().State)
	require.NotNil(t, m.Snapshot().Deadline)

	for _, a := range []string{"first answer", "", "third"} {
		require.NoError(t, m.Submit(context.Background(), a))
	}
	snap := m.Snapshot()
	assert.Equal(t, PhaseReviewing, snap.State.Phase)
	require.Len(t, snap.Answers, 3)

	out, err := m.Finalize(context.Background())
	require.NoError(t, err)
	assert.False(t, out.EndExamContext)
	assert.NoError(t, out.PersistErr)
	assert.Equal(t, "session-1", out.Session.ID)
	assert.Equal(t, model.SessionStatusCompleted, out.Session.Status)
	assert.Equal(t, 3, out.Session.QuestionCount)
	assert.Len(t, out.Session.Answers, 3)
	assert.Equal(t, model.CategoryCoding, out.Session.Category)
	assert.Empty(t, out.Session.ExamCode)

	// empty answers are evaluated with the placeholder
	assert.Equal(t, []string{"first answer", emptyAnswerPlaceholder, "third"}, h.eval.answers)
	assert.Equal(t, []int{12, 19, 5}, h.recorder.reports)
	assert.Equal(t, 12, out.Session.AverageScore)

	_, err = m.Finalize(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestIllegalTransitions(t *testing.T) {
	h := newHarness(2)
	m := NewPractice(candidate, h.deps())

	assert.ErrorIs(t, m.Start(context.Background()), ErrIllegalTransition, "start requires parameters")
	assert.ErrorIs(t, m.Begin(), ErrIllegalTransition)
	assert.ErrorIs(t, m.Submit(context.Background(), "x"), ErrIllegalTransition)
	_, err := m.Finalize(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, m.Configure(Params{Role: "", Category: model.CategoryCoding, Difficulty: model.DifficultyBeginner}), ErrInvalidParams)
	assert.ErrorIs(t, m.Configure(Params{Role: "x", Category: "DANCE", Difficulty: model.DifficultyBeginner}), ErrInvalidParams)
}

func TestZeroQuestionsReturnsToConfiguring(t *testing.T) {
	h := newHarness(0)
	m := NewPractice(candidate, h.deps())
	require.NoError(t, m.Configure(Params{Role: "QA Engineer", Category: model.CategoryCoding, Difficulty: model.DifficultyBeginner}))

	err := m.Start(context.Background())

	assert.ErrorIs(t, err, ErrNoQuestions)
	snap := m.Snapshot()
	assert.Equal(t, PhaseConfiguring, snap.State.Phase)
	assert.Equal(t, ErrNoQuestions.Error(), snap.Error)

	h.eval.count = 2
	require.NoError(t, m.Start(context.Background()), "retry after reconfiguring is allowed")
	assert.Empty(t, m.Snapshot().Error)
}

func TestExamContext(t *testing.T) {
	h := newHarness(2)

	_, err := NewExam(Identity{Email: "eve@example.com"}, testExam(), h.deps())
	assert.ErrorIs(t, err, ErrNotInvited)

	m, err := NewExam(Identity{Email: "ANA@example.com"}, testExam(), h.deps())
	require.NoError(t, err)
	assert.Equal(t, PhaseLoading, m.Snapshot().State.Phase)
	assert.ErrorIs(t, m.Configure(Params{Role: "x", Category: model.CategoryCoding, Difficulty: model.DifficultyBeginner}), ErrExamLocked)
	assert.ErrorIs(t, m.Cancel(), ErrCancelForbidden)

	require.NoError(t, m.Start(context.Background()))
	snap := m.Snapshot()
	assert.Equal(t, PhaseBriefing, snap.State.Phase)
	assert.True(t, snap.Proctored)
	assert.Equal(t, "Backend Developer", snap.Params.Role)
	assert.ErrorIs(t, m.Cancel(), ErrCancelForbidden)
}

func TestExamNoInviteListAdmitsAnyone(t *testing.T) {
	exam := testExam()
	exam.InvitedEmails = nil
	_, err := NewExam(Identity{Email: "anyone@example.com"}, exam, newHarness(1).deps())
	assert.NoError(t, err)
}

func TestTimerExpiryAutoSubmits(t *testing.T) {
	h := newHarness(2)
	m := activePractice(t, h)

	h.clock.fire()

	assert.Equal(t, State{Phase: PhaseActive, Index: 1}, m.Snapshot().State)
	assert.Equal(t, []string{emptyAnswerPlaceholder}, h.eval.answers)
	assert.Len(t, h.clock.timers, 2, "a fresh timer per question")
}

func TestStaleTimerIsIgnored(t *testing.T) {
	h := newHarness(2)
	m := activePractice(t, h)
	first := h.clock.timers[0]

	require.NoError(t, m.Submit(context.Background(), "answer"))
	first.f() // fires after the manual submit claimed question 0

	assert.Equal(t, 1, m.Snapshot().AnsweredCount)
	assert.True(t, first.stopped)
}

func TestSubmitRacingTimerYieldsOneRecord(t *testing.T) {
	h := newHarness(1)
	h.eval.gate = make(chan struct{})
	h.eval.entered = make(chan struct{}, 1)
	m := activePractice(t, h)

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), "manual") }()
	<-h.eval.entered

	h.clock.fire() // timer expires while the manual answer is being evaluated
	assert.ErrorIs(t, m.Submit(context.Background(), "again"), ErrAnswerPending)

	close(h.eval.gate)
	require.NoError(t, <-done)

	snap := m.Snapshot()
	assert.Equal(t, PhaseReviewing, snap.State.Phase)
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "manual", snap.Answers[0].AnswerText)
}

func TestSubmitRacingRealTimer(t *testing.T) {
	for i := 0; i < 50; i++ {
		h := newHarness(1)
		deps := h.deps()
		deps.Clock = SystemClock{}
		deps.QuestionTimeLimit = time.Duration(i%3) * time.Microsecond
		if deps.QuestionTimeLimit == 0 {
			deps.QuestionTimeLimit = time.Nanosecond
		}
		m := NewPractice(candidate, deps)
		require.NoError(t, m.Configure(Params{Role: "r", Category: model.CategoryTechnical, Difficulty: model.DifficultyBeginner}))
		require.NoError(t, m.Start(context.Background()))
		require.NoError(t, m.AcceptGuidelines())
		require.NoError(t, m.Begin())

		_ = m.Submit(context.Background(), "manual")
		require.Eventually(t, func() bool {
			return m.Snapshot().State.Phase == PhaseReviewing
		}, time.Second, time.Millisecond)

		require.Eventually(t, func() bool {
			h.recorder.mu.Lock()
			defer h.recorder.mu.Unlock()
			return len(h.recorder.reports) == 1
		}, time.Second, time.Millisecond)
		assert.Equal(t, 1, m.Snapshot().AnsweredCount)
	}
}

func TestPass(t *testing.T) {
	h := newHarness(1)
	m := activePractice(t, h)

	require.NoError(t, m.Pass(context.Background()))

	snap := m.Snapshot()
	require.Len(t, snap.Answers, 1)
	a := snap.Answers[0]
	assert.Equal(t, model.SkippedAnswer, a.AnswerText)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, "ideal", a.Evaluation.IdealAnswer)
	assert.Equal(t, []string{"Question was not attempted."}, a.Evaluation.Weaknesses)
	assert.Empty(t, h.eval.answers, "passing does not evaluate an answer")
	assert.Equal(t, []int{0}, h.recorder.reports)
}

func TestVisibilityLostSuspendsExam(t *testing.T) {
	h := newHarness(3)
	m := activeExam(t, h)
	require.NoError(t, m.Submit(context.Background(), "first"))

	assert.True(t, m.VisibilityLost())
	assert.False(t, m.VisibilityLost(), "repeated signals collapse into one transition")
	assert.Equal(t, PhaseSuspended, m.Snapshot().State.Phase)
	assert.ErrorIs(t, m.Submit(context.Background(), "late"), ErrIllegalTransition)

	h.clock.fire() // pending countdown of question 1 is dead
	assert.Equal(t, PhaseSuspended, m.Snapshot().State.Phase)

	_, err := m.Finalize(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)

	out, err := m.FinalizeSuspension(context.Background())
	require.NoError(t, err)
	assert.True(t, out.EndExamContext)
	assert.Equal(t, model.SessionStatusViolationTabSwitch, out.Session.Status)
	assert.Len(t, out.Session.Answers, 1)
	assert.Equal(t, "ABC123", out.Session.ExamCode)
	assert.Equal(t, "hr@acme.io", out.Session.OwnerEmail)
}

func TestVisibilityLostIgnoredForPractice(t *testing.T) {
	h := newHarness(2)
	m := activePractice(t, h)

	assert.False(t, m.VisibilityLost())
	assert.Equal(t, PhaseActive, m.Snapshot().State.Phase)
}

func TestVisibilityLostIgnoredOutsideActive(t *testing.T) {
	h := newHarness(2)
	m, err := NewExam(candidate, testExam(), h.deps())
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))

	assert.False(t, m.VisibilityLost())
	assert.Equal(t, PhaseBriefing, m.Snapshot().State.Phase)
}

func TestVisibilityLostPreemptsEvaluation(t *testing.T) {
	h := newHarness(2)
	h.eval.gate = make(chan struct{})
	h.eval.entered = make(chan struct{}, 1)
	h.eval.honourCtx = true
	m := activeExam(t, h)

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), "in flight") }()
	<-h.eval.entered

	require.True(t, m.VisibilityLost())
	assert.ErrorIs(t, <-done, ErrSuspended)

	out, err := m.FinalizeSuspension(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.Session.Answers, "the interrupted answer is not recorded")
	assert.Empty(t, h.recorder.reports)
}

func TestPersistFailureIsBestEffort(t *testing.T) {
	h := newHarness(1)
	h.recorder.err = errors.New("db down")
	m := activePractice(t, h)
	require.NoError(t, m.Submit(context.Background(), "answer"))

	out, err := m.Finalize(context.Background())

	require.NoError(t, err)
	assert.EqualError(t, out.PersistErr, "db down")
	assert.Len(t, out.Session.Answers, 1)
	assert.Equal(t, model.SessionStatusCompleted, out.Session.Status)
}

func TestLastAnswerReportSurvivesFinalize(t *testing.T) {
	h := newHarness(1)
	m := activePractice(t, h)
	h.recorder.entered = make(chan struct{}, 1)
	h.recorder.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), "last") }()
	<-h.recorder.entered
	require.Equal(t, PhaseReviewing, m.Snapshot().State.Phase)

	_, err := m.Finalize(context.Background())
	require.NoError(t, err)
	close(h.recorder.gate)
	require.NoError(t, <-done)

	h.recorder.mu.Lock()
	defer h.recorder.mu.Unlock()
	assert.Equal(t, []int{4}, h.recorder.reports)
	assert.Equal(t, []error{nil}, h.recorder.reportErrs, "the increment runs on a context finalize does not cancel")
}

func TestCancelPractice(t *testing.T) {
	h := newHarness(2)
	m := NewPractice(candidate, h.deps())
	require.NoError(t, m.Configure(Params{Role: "r", Category: model.CategoryTechnical, Difficulty: model.DifficultyBeginner}))
	require.NoError(t, m.Start(context.Background()))

	require.NoError(t, m.Cancel())

	assert.Equal(t, PhaseCancelled, m.Snapshot().State.Phase)
	assert.ErrorIs(t, m.Begin(), ErrClosed)
	assert.Empty(t, h.recorder.sessions)
}

func TestCancelNotAllowedWhileActive(t *testing.T) {
	m := activePractice(t, newHarness(2))
	assert.ErrorIs(t, m.Cancel(), ErrIllegalTransition)
}

func TestAbandon(t *testing.T) {
	h := newHarness(2)
	m := activeExam(t, h)

	st := m.Abandon()

	assert.Equal(t, State{Phase: PhaseActive, Index: 0}, st)
	assert.False(t, m.VisibilityLost())
	assert.ErrorIs(t, m.Submit(context.Background(), "x"), ErrClosed)
	h.clock.fire()
	assert.Equal(t, 0, m.Snapshot().AnsweredCount)
}

func TestObserverSeesOrderedEvents(t *testing.T) {
	h := newHarness(1)
	m := activePractice(t, h)
	require.NoError(t, m.Submit(context.Background(), "a"))
	_, err := m.Finalize(context.Background())
	require.NoError(t, err)

	h.mu.Lock()
	defer h.mu.Unlock()
	var kinds []EventKind
	var phases []Phase
	for _, ev := range h.events {
		kinds = append(kinds, ev.Kind)
		phases = append(phases, ev.Snapshot.State.Phase)
	}
	assert.Equal(t, []Phase{
		PhaseConfiguring, // configure
		PhaseLoading,
		PhaseBriefing,
		PhaseBriefing, // consent
		PhaseActive,
		PhaseActive, // evaluating
		PhaseReviewing,
		PhaseReviewing,
	}, phases)
	assert.Equal(t, EventAnswerRecorded, kinds[6])
	assert.Equal(t, EventCompleted, kinds[7])
	require.NotNil(t, h.events[7].Session)
	assert.Equal(t, "session-1", h.events[7].Session.ID)
}
