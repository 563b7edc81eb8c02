package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// Filter restricts the sessions a leaderboard is computed over. ExamCode
// takes precedence; a non-nil ExamCodes keeps only sessions of those exams.
type Filter struct {
	ExamCode  string
	ExamCodes []string
}

func (f Filter) match(s model.Session) bool {
	if f.ExamCode != "" {
		return strings.EqualFold(s.ExamCode, f.ExamCode)
	}
	if f.ExamCodes != nil {
		for _, code := range f.ExamCodes {
			if strings.EqualFold(s.ExamCode, code) {
				return true
			}
		}
		return false
	}
	return true
}

// Leaderboard ranks sessions by rounded average, highest first. Ties keep
// input order and ranks run 1..n without gaps.
func Leaderboard(sessions []model.Session, f Filter) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(sessions))
	for _, s := range sessions {
		if !f.match(s) {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Name:     DisplayName(s),
			Email:    s.UserEmail,
			Score:    SessionAverage(s),
			ExamCode: s.ExamCode,
			Status:   s.Status,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// DisplayName falls back to "Candidate <last 4 of id>" for unnamed sessions.
func DisplayName(s model.Session) string {
	if name := strings.TrimSpace(s.CandidateName); name != "" {
		return name
	}
	id := s.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return fmt.Sprintf("Candidate %s", id)
}
