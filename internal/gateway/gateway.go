// Package gateway wraps the AI provider behind typed operations that never
// fail: rate-limited calls are retried, and any other failure is replaced by
// a fixed, labeled fallback payload.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/go-playground/validator/v10"
	"github.com/hirepulse/hirepulse-backend/internal/metrics"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/rs/zerolog"
)

const (
	OpGenerateQuestions = "generate_questions"
	OpCodingChallenge   = "coding_challenge"
	OpEvaluateAnswer    = "evaluate_answer"
	OpIdealAnswer       = "ideal_answer"
	OpValidateCode      = "validate_code"
	OpAnalyzeResume     = "analyze_resume"
)

var errEmptyResult = errors.New("empty result")

// Gateway is the single entry point to the AI provider.
type Gateway struct {
	provider Provider
	retry    RetryPolicy
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a Gateway. A zero timeout disables the per-call deadline.
func New(provider Provider, retry RetryPolicy, timeout time.Duration, log zerolog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		retry:    retry,
		timeout:  timeout,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "gateway").Logger(),
		now:      time.Now,
	}
}

// call runs one provider request through the retry policy, decodes the JSON
// payload into T and checks it. ok is false when the caller must fall back.
func call[T any](ctx context.Context, g *Gateway, op, prompt string, schema *genai.Schema, check func(*T) error) (T, bool) {
	var out T
	started := g.now()
	defer func() {
		metrics.GatewayDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	}()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	policy := g.retry
	policy.OnRetry = func(err error, wait time.Duration) {
		metrics.GatewayRetries.WithLabelValues(op).Inc()
		g.log.Warn().Err(err).Str("operation", op).Dur("wait", wait).Msg("Provider rate limited, retrying")
	}

	raw, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
		return g.provider.Generate(ctx, Request{Operation: op, Prompt: prompt, Schema: schema})
	})
	if err == nil {
		err = decode(raw, &out)
	}
	if err == nil && check != nil {
		err = check(&out)
	}
	if err != nil {
		metrics.GatewayCalls.WithLabelValues(op, "fallback").Inc()
		g.log.Warn().Err(err).Str("operation", op).Msg("Provider call failed, serving fallback")
		var zero T
		return zero, false
	}

	metrics.GatewayCalls.WithLabelValues(op, "ok").Inc()
	return out, true
}

func decode(raw string, dst any) error {
	raw = stripFences(raw)
	if raw == "" {
		return errEmptyResult
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// clampScore rounds a model-supplied score into [0,100].
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

// ─── Questions ──────────────────────────────────────────────────────────

type questionWire struct {
	Text          string   `json:"text" validate:"required"`
	Difficulty    string   `json:"difficulty"`
	IdealKeywords []string `json:"idealKeywords"`
}

// GenerateQuestions asks for QuestionsPerSession questions. It never returns
// an empty list: any failure yields the three canned questions for the category.
func (g *Gateway) GenerateQuestions(ctx context.Context, role string, category model.Category, difficulty model.Difficulty) []model.Question {
	wire, ok := call(ctx, g, OpGenerateQuestions, questionsPrompt(role, category, difficulty), questionListSchema,
		func(items *[]questionWire) error {
			if len(*items) == 0 {
				return errEmptyResult
			}
			for i := range *items {
				if err := g.validate.Struct(&(*items)[i]); err != nil {
					return fmt.Errorf("question %d: %w", i, err)
				}
			}
			return nil
		})
	if !ok {
		return fallbackQuestions(role, category)
	}

	if len(wire) > QuestionsPerSession {
		wire = wire[:QuestionsPerSession]
	}
	stamp := g.now().UnixMilli()
	questions := make([]model.Question, 0, len(wire))
	for i, q := range wire {
		d := model.Difficulty(strings.ToUpper(strings.TrimSpace(q.Difficulty)))
		if !d.Valid() {
			d = difficulty
		}
		keywords := q.IdealKeywords
		if keywords == nil {
			keywords = []string{}
		}
		questions = append(questions, model.Question{
			ID:            fmt.Sprintf("q-%d-%d", stamp, i),
			Text:          strings.TrimSpace(q.Text),
			Category:      category,
			Difficulty:    d,
			IdealKeywords: keywords,
		})
	}
	return questions
}

// ─── Coding challenge ───────────────────────────────────────────────────

type challengeWire struct {
	Title       string `json:"title" validate:"required"`
	Difficulty  string `json:"difficulty" validate:"required"`
	Description string `json:"description" validate:"required"`
	StarterCode struct {
		Python string `json:"python" validate:"required"`
		Java   string `json:"java" validate:"required"`
		Cpp    string `json:"cpp" validate:"required"`
	} `json:"starterCode" validate:"required"`
}

// ChallengePoints maps a challenge difficulty to its point value.
func ChallengePoints(difficulty string) int {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "hard":
		return 150
	case "medium":
		return 100
	default:
		return 50
	}
}

func (g *Gateway) GenerateCodingChallenge(ctx context.Context, role string) model.CodingChallenge {
	w, ok := call(ctx, g, OpCodingChallenge, codingChallengePrompt(role), codingChallengeSchema,
		func(w *challengeWire) error { return g.validate.Struct(w) })
	if !ok {
		return fallbackCodingChallenge()
	}
	return model.CodingChallenge{
		ID:          fmt.Sprintf("code-%d", g.now().UnixMilli()),
		Title:       w.Title,
		Difficulty:  w.Difficulty,
		Points:      ChallengePoints(w.Difficulty),
		Description: w.Description,
		StarterCode: model.StarterCode{
			Python: w.StarterCode.Python,
			Java:   w.StarterCode.Java,
			Cpp:    w.StarterCode.Cpp,
		},
	}
}

// ─── Answer evaluation ──────────────────────────────────────────────────

type evaluationWire struct {
	Score       *float64 `json:"score" validate:"required"`
	Relevance   *float64 `json:"relevance" validate:"required"`
	Correctness *float64 `json:"correctness" validate:"required"`
	Grammar     *float64 `json:"grammar" validate:"required"`
	Sentiment   string   `json:"sentiment"`
	Feedback    string   `json:"feedback" validate:"required"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	IdealAnswer string   `json:"idealAnswer"`
}

// EvaluateAnswer scores one answer. On failure the score is a length
// heuristic and the feedback says the evaluation was degraded.
func (g *Gateway) EvaluateAnswer(ctx context.Context, question, answer string, category model.Category) model.Evaluation {
	w, ok := call(ctx, g, OpEvaluateAnswer, evaluationPrompt(question, answer, category), evaluationSchema,
		func(w *evaluationWire) error { return g.validate.Struct(w) })
	if !ok {
		return fallbackEvaluation(answer)
	}
	return model.Evaluation{
		Score:       clampScore(*w.Score),
		Relevance:   clampScore(*w.Relevance),
		Correctness: clampScore(*w.Correctness),
		Grammar:     clampScore(*w.Grammar),
		Sentiment:   w.Sentiment,
		Feedback:    w.Feedback,
		Strengths:   nonNil(w.Strengths),
		Weaknesses:  nonNil(w.Weaknesses),
		IdealAnswer: w.IdealAnswer,
	}
}

type idealAnswerWire struct {
	IdealAnswer string `json:"idealAnswer" validate:"required"`
}

// IdealAnswer returns a reference answer for a skipped question.
func (g *Gateway) IdealAnswer(ctx context.Context, question string, category model.Category) string {
	w, ok := call(ctx, g, OpIdealAnswer, idealAnswerPrompt(question, category), idealAnswerSchema,
		func(w *idealAnswerWire) error { return g.validate.Struct(w) })
	if !ok {
		return skippedIdealAnswer
	}
	return w.IdealAnswer
}

// ─── Code review ────────────────────────────────────────────────────────

type codeReviewWire struct {
	Status          string   `json:"status" validate:"required"`
	TimeComplexity  string   `json:"timeComplexity"`
	SpaceComplexity string   `json:"spaceComplexity"`
	Feedback        string   `json:"feedback" validate:"required"`
	Score           *float64 `json:"score" validate:"required"`
	OptimalSolution string   `json:"optimalSolution"`
}

// ValidateCode statically reviews a solution. Nothing is executed.
func (g *Gateway) ValidateCode(ctx context.Context, problem, language, code string) model.CodeReview {
	w, ok := call(ctx, g, OpValidateCode, codeReviewPrompt(problem, language, code), codeReviewSchema,
		func(w *codeReviewWire) error { return g.validate.Struct(w) })
	if !ok {
		return fallbackCodeReview()
	}
	return model.CodeReview{
		Status:          w.Status,
		TimeComplexity:  w.TimeComplexity,
		SpaceComplexity: w.SpaceComplexity,
		Score:           clampScore(*w.Score),
		OptimalSolution: w.OptimalSolution,
		Feedback:        w.Feedback,
	}
}

// ─── Resume analysis ────────────────────────────────────────────────────

type resumeWire struct {
	Score                 *float64 `json:"score" validate:"required"`
	Summary               string   `json:"summary" validate:"required"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
	MatchingScore         *float64 `json:"matchingScore" validate:"required"`
	SkillGaps             []string `json:"skillGaps"`
	SuggestedRoles        []string `json:"suggestedRoles"`
}

func (g *Gateway) AnalyzeResume(ctx context.Context, resumeText, targetRole string) model.ResumeAnalysis {
	w, ok := call(ctx, g, OpAnalyzeResume, resumePrompt(resumeText, targetRole), resumeAnalysisSchema,
		func(w *resumeWire) error { return g.validate.Struct(w) })
	if !ok {
		return fallbackResumeAnalysis(targetRole)
	}
	return model.ResumeAnalysis{
		Score:                 clampScore(*w.Score),
		Summary:               w.Summary,
		SuggestedImprovements: nonNil(w.SuggestedImprovements),
		MatchingScore:         clampScore(*w.MatchingScore),
		SkillGaps:             nonNil(w.SkillGaps),
		SuggestedRoles:        nonNil(w.SuggestedRoles),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
