// Package scoring derives aggregates from persisted sessions. Every function
// is pure and safe for concurrent use.
package scoring

import (
	"math"

	"github.com/hirepulse/hirepulse-backend/internal/model"
)

const (
	readinessAvgWeight    = 0.7
	readinessPerSession   = 2
	readinessBreadthBonus = 10
	consistencyPerStreak  = 10
	recentTrendLength     = 10
	maxScore              = 100
)

// AnswersMean is the unrounded mean of answer scores. The denominator is
// floored at 1, so no answers gives 0.
func AnswersMean(answers []model.AnswerRecord) float64 {
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return float64(total) / float64(max(len(answers), 1))
}

// AnswersAverage is AnswersMean rounded to the nearest integer.
func AnswersAverage(answers []model.AnswerRecord) int {
	return round(AnswersMean(answers))
}

// SessionAverage is the rounded mean of a session's answer scores.
func SessionAverage(s model.Session) int {
	return AnswersAverage(s.Answers)
}

// OverallAverage is the rounded mean of per-session means, 0 when empty.
func OverallAverage(sessions []model.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range sessions {
		sum += AnswersMean(s.Answers)
	}
	return round(sum / float64(len(sessions)))
}

// Readiness is min(100, round(avg*0.7 + sessions*2 + bonus)); the bonus is
// granted once both a CODING and a TECHNICAL session exist.
func Readiness(sessions []model.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	v := round(float64(OverallAverage(sessions))*readinessAvgWeight +
		float64(len(sessions)*readinessPerSession) +
		float64(breadthBonus(sessions)))
	return clamp(v)
}

func breadthBonus(sessions []model.Session) int {
	var coding, technical bool
	for _, s := range sessions {
		switch s.Category {
		case model.CategoryCoding:
			coding = true
		case model.CategoryTechnical:
			technical = true
		}
	}
	if coding && technical {
		return readinessBreadthBonus
	}
	return 0
}

// CategoryAverage is the rounded mean of session means for one category.
func CategoryAverage(sessions []model.Session, category model.Category) int {
	sum, n := 0.0, 0
	for _, s := range sessions {
		if s.Category != category {
			continue
		}
		sum += AnswersMean(s.Answers)
		n++
	}
	if n == 0 {
		return 0
	}
	return round(sum / float64(n))
}

// SkillMatrix scores each category plus consistency derived from the streak.
func SkillMatrix(sessions []model.Session, streak int) []model.SkillScore {
	return []model.SkillScore{
		{Subject: "Technical", Score: CategoryAverage(sessions, model.CategoryTechnical)},
		{Subject: "System Design", Score: CategoryAverage(sessions, model.CategorySystemDesign)},
		{Subject: "Coding", Score: CategoryAverage(sessions, model.CategoryCoding)},
		{Subject: "Aptitude", Score: CategoryAverage(sessions, model.CategoryAptitude)},
		{Subject: "Consistency", Score: clamp(streak * consistencyPerStreak)},
	}
}

// BuildDashboard aggregates a candidate's sessions (newest first) and profile counters.
func BuildDashboard(sessions []model.Session, profile model.Profile) model.Dashboard {
	trend := make([]int, 0, recentTrendLength)
	for i := min(len(sessions), recentTrendLength) - 1; i >= 0; i-- {
		trend = append(trend, SessionAverage(sessions[i]))
	}
	return model.Dashboard{
		TotalSessions: len(sessions),
		AverageScore:  OverallAverage(sessions),
		Readiness:     Readiness(sessions),
		Streak:        profile.Streak,
		TotalScore:    profile.TotalScore,
		SkillMatrix:   SkillMatrix(sessions, profile.Streak),
		RecentTrend:   trend,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp(v int) int {
	return max(0, min(maxScore, v))
}
