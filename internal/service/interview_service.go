package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hirepulse/hirepulse-backend/internal/interview"
	"github.com/hirepulse/hirepulse-backend/internal/metrics"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
)

const (
	activeInterviewTTL = 2 * time.Hour
	liveEntryTTL       = 24 * time.Hour
	monitorTimeout     = 2 * time.Second
	finalizeTimeout    = 10 * time.Second
)

// Monitor event kinds beyond the machine's own event kinds.
const (
	MonitorKindDisconnected = "disconnected"
	MonitorKindLeft         = "left"
)

// ExamResolver looks up exams by access code, failing closed.
type ExamResolver interface {
	LookupExamByCode(ctx context.Context, code string) (*model.ExamConfig, bool)
}

// ExamContextCloser revokes an exam-context login.
type ExamContextCloser interface {
	EndExamContext(ctx context.Context, email, code string) error
}

// InterviewLocks guards one live interview per candidate.
type InterviewLocks interface {
	Acquire(ctx context.Context, email, token string) (bool, error)
	Release(ctx context.Context, email, token string) error
}

// MonitorFeed publishes live progress to the recruiter monitor. remove
// drops the candidate from the live view after publishing.
type MonitorFeed interface {
	Publish(ctx context.Context, code string, ev MonitorEvent, remove bool) error
}

// ProctoringQueue receives proctoring audit events.
type ProctoringQueue interface {
	EnqueueProctoringEvent(ctx context.Context, e model.ProctoringEvent) error
}

// MonitorEvent is one candidate's live progress as seen by the recruiter.
type MonitorEvent struct {
	Email         string              `json:"email"`
	Name          string              `json:"name"`
	Kind          string              `json:"kind"`
	Phase         interview.Phase     `json:"phase"`
	Index         int                 `json:"index"`
	Answered      int                 `json:"answered"`
	QuestionCount int                 `json:"question_count"`
	AverageScore  int                 `json:"average_score"`
	Status        model.SessionStatus `json:"status,omitempty"`
	At            time.Time           `json:"at"`
}

// InterviewService owns live interview machines: one per candidate,
// guarded by a lock so a second tab or device is refused.
type InterviewService struct {
	evaluator interview.Evaluator
	recorder  interview.Recorder
	exams     ExamResolver
	contexts  ExamContextCloser
	locks     InterviewLocks
	monitor   MonitorFeed
	proctor   ProctoringQueue
	timeLimit time.Duration
	log       zerolog.Logger
}

func NewInterviewService(
	evaluator interview.Evaluator,
	recorder interview.Recorder,
	exams ExamResolver,
	contexts ExamContextCloser,
	locks InterviewLocks,
	monitor MonitorFeed,
	proctor ProctoringQueue,
	timeLimit time.Duration,
	log zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		evaluator: evaluator,
		recorder:  recorder,
		exams:     exams,
		contexts:  contexts,
		locks:     locks,
		monitor:   monitor,
		proctor:   proctor,
		timeLimit: timeLimit,
		log:       log.With().Str("component", "interview_service").Logger(),
	}
}

// Open creates the machine for the caller. Exam tokens get a proctored
// machine for their access code; every other token gets a practice one.
// sink receives every machine event in order and must not block for long.
func (s *InterviewService) Open(ctx context.Context, claims *Claims, sink func(interview.Event)) (*LiveInterview, error) {
	identity := interview.Identity{Email: claims.Email, Name: claims.Name}

	var exam *model.ExamConfig
	if claims.TokenType == TokenTypeExam {
		var ok bool
		exam, ok = s.exams.LookupExamByCode(ctx, claims.ExamCode)
		if !ok {
			return nil, ErrExamNotFound
		}
	}

	lockToken := uuid.NewString()
	acquired, err := s.locks.Acquire(ctx, claims.Email, lockToken)
	if err != nil {
		return nil, fmt.Errorf("acquire interview lock: %w", err)
	}
	if !acquired {
		return nil, ErrInterviewActive
	}

	l := &LiveInterview{
		svc:       s,
		identity:  identity,
		sink:      sink,
		lockToken: lockToken,
		log:       s.log.With().Str("email", claims.Email).Logger(),
	}
	deps := interview.Deps{
		Evaluator:         s.evaluator,
		Recorder:          s.recorder,
		QuestionTimeLimit: s.timeLimit,
		Observer:          l.observe,
		Log:               s.log,
	}

	if exam != nil {
		m, err := interview.NewExam(identity, exam, deps)
		if err != nil {
			s.releaseLock(claims.Email, lockToken)
			if errors.Is(err, interview.ErrNotInvited) {
				return nil, ErrNotInvited
			}
			return nil, err
		}
		l.machine = m
		l.examCode = exam.Code
		l.log = l.log.With().Str("exam_code", exam.Code).Logger()
	} else {
		l.machine = interview.NewPractice(identity, deps)
	}

	metrics.ActiveInterviews.Inc()
	l.log.Info().Bool("proctored", l.examCode != "").Msg("Interview opened")
	return l, nil
}

func (s *InterviewService) releaseLock(email, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), monitorTimeout)
	defer cancel()
	if err := s.locks.Release(ctx, email, token); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("Failed to release interview lock")
	}
}

func (s *InterviewService) publishMonitor(code string, ev MonitorEvent, remove bool) {
	ctx, cancel := context.WithTimeout(context.Background(), monitorTimeout)
	defer cancel()
	if err := s.monitor.Publish(ctx, code, ev, remove); err != nil {
		s.log.Warn().Err(err).Str("exam_code", code).Msg("Failed to publish monitor event")
	}
}

func (s *InterviewService) recordProctoring(code, email string, index int, kind model.ProctoringEventKind) {
	metrics.ProctoringEvents.WithLabelValues(string(kind)).Inc()
	ctx, cancel := context.WithTimeout(context.Background(), monitorTimeout)
	defer cancel()
	ev := model.ProctoringEvent{
		ExamCode:      code,
		Email:         email,
		QuestionIndex: index,
		Kind:          kind,
		RecordedAt:    time.Now().UTC(),
	}
	if err := s.proctor.EnqueueProctoringEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("exam_code", code).Str("email", email).Msg("Failed to enqueue proctoring event")
	}
}

// LiveInterview is one candidate's machine bound to a transport.
type LiveInterview struct {
	svc       *InterviewService
	machine   *interview.Machine
	identity  interview.Identity
	examCode  string
	sink      func(interview.Event)
	lockToken string
	log       zerolog.Logger

	// lastIndex is the question index seen by the observer, for proctoring records.
	lastIndex atomic.Int64
	finished  atomic.Bool
	closeOnce sync.Once
}

// Machine exposes the state machine for transport actions.
func (l *LiveInterview) Machine() *interview.Machine { return l.machine }

// Proctored reports whether this is an exam session.
func (l *LiveInterview) Proctored() bool { return l.examCode != "" }

func (l *LiveInterview) observe(ev interview.Event) {
	if l.sink != nil {
		l.sink(ev)
	}
	if ev.Snapshot.State.Phase == interview.PhaseActive {
		l.lastIndex.Store(int64(ev.Snapshot.State.Index))
	}
	if l.examCode == "" {
		return
	}

	if ev.Kind == interview.EventSuspended {
		l.svc.recordProctoring(l.examCode, l.identity.Email, int(l.lastIndex.Load()), model.ProctoringVisibilityHidden)
	}
	me := l.monitorEvent(string(ev.Kind), ev.Snapshot)
	if ev.Session != nil {
		me.Status = ev.Session.Status
		me.AverageScore = ev.Session.AverageScore
	}
	l.svc.publishMonitor(l.examCode, me, false)
}

func (l *LiveInterview) monitorEvent(kind string, snap interview.Snapshot) MonitorEvent {
	return MonitorEvent{
		Email:         l.identity.Email,
		Name:          l.identity.Name,
		Kind:          kind,
		Phase:         snap.State.Phase,
		Index:         snap.State.Index,
		Answered:      snap.AnsweredCount,
		QuestionCount: snap.QuestionCount,
		AverageScore:  snap.AverageScore,
		At:            time.Now().UTC(),
	}
}

// Finalize emits the session from Reviewing, or the violation session from
// Suspended. Exam sessions also close the exam-context login.
func (l *LiveInterview) Finalize(ctx context.Context) (interview.Outcome, error) {
	var (
		out interview.Outcome
		err error
	)
	if l.machine.Snapshot().State.Phase == interview.PhaseSuspended {
		out, err = l.machine.FinalizeSuspension(ctx)
	} else {
		out, err = l.machine.Finalize(ctx)
	}
	if err != nil {
		return out, err
	}
	l.finished.Store(true)

	kind := "practice"
	if l.Proctored() {
		kind = "exam"
	}
	metrics.SessionsCompleted.WithLabelValues(kind, string(out.Session.Status)).Inc()

	if out.EndExamContext {
		if err := l.svc.contexts.EndExamContext(ctx, l.identity.Email, l.examCode); err != nil {
			l.log.Error().Err(err).Msg("Failed to close exam context")
		}
	}
	l.log.Info().
		Str("session_id", out.Session.ID).
		Str("status", string(out.Session.Status)).
		Int("average_score", out.Session.AverageScore).
		Msg("Interview finalized")
	return out, nil
}

// Close tears the machine down when the transport goes away. A suspended
// exam still emits its violation session with the answers recorded so far.
// Any other exam left mid-flight is recorded as a disconnect and cannot be
// resumed.
func (l *LiveInterview) Close() {
	l.closeOnce.Do(func() {
		if !l.finished.Load() && l.machine.Snapshot().State.Phase == interview.PhaseSuspended {
			ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
			if _, err := l.Finalize(ctx); err != nil && !errors.Is(err, interview.ErrClosed) {
				l.log.Error().Err(err).Msg("Failed to finalize suspended interview on disconnect")
			}
			cancel()
		}

		state := l.machine.Abandon()
		l.svc.releaseLock(l.identity.Email, l.lockToken)
		metrics.ActiveInterviews.Dec()

		if l.examCode == "" {
			l.log.Info().Str("state", state.String()).Msg("Interview closed")
			return
		}

		kind := MonitorKindLeft
		if !l.finished.Load() {
			switch state.Phase {
			case interview.PhaseLoading, interview.PhaseBriefing, interview.PhaseActive, interview.PhaseReviewing:
				kind = MonitorKindDisconnected
				l.svc.recordProctoring(l.examCode, l.identity.Email, int(l.lastIndex.Load()), model.ProctoringDisconnected)
				l.log.Warn().Str("state", state.String()).Msg("Exam interview abandoned before finalization")
			}
		}
		me := l.monitorEvent(kind, l.machine.Snapshot())
		l.svc.publishMonitor(l.examCode, me, true)
	})
}
