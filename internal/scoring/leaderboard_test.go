package scoring

import (
	"testing"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examSession(id, name, code string, scores ...int) model.Session {
	s := session(model.CategoryTechnical, scores...)
	s.ID = id
	s.CandidateName = name
	s.ExamCode = code
	return s
}

func TestLeaderboard_StableDenseRanks(t *testing.T) {
	sessions := []model.Session{
		examSession("s1", "Ana", "ABC123", 70),
		examSession("s2", "Ben", "ABC123", 90),
		examSession("s3", "Cy", "ABC123", 70),
		examSession("s4", "Dee", "ABC123", 100),
	}

	got := Leaderboard(sessions, Filter{})

	require.Len(t, got, 4)
	names := []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name}
	assert.Equal(t, []string{"Dee", "Ben", "Ana", "Cy"}, names)
	for i, e := range got {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestLeaderboard_Filters(t *testing.T) {
	sessions := []model.Session{
		examSession("s1", "Ana", "ABC123", 70),
		examSession("s2", "Ben", "XYZ789", 90),
		examSession("s3", "Cy", "", 80),
	}

	byCode := Leaderboard(sessions, Filter{ExamCode: "abc123"})
	require.Len(t, byCode, 1)
	assert.Equal(t, "Ana", byCode[0].Name)

	byOwner := Leaderboard(sessions, Filter{ExamCodes: []string{"XYZ789", "ABC123"}})
	require.Len(t, byOwner, 2)
	assert.Equal(t, "Ben", byOwner[0].Name)

	none := Leaderboard(sessions, Filter{ExamCodes: []string{}})
	assert.Empty(t, none)

	all := Leaderboard(sessions, Filter{})
	assert.Len(t, all, 3)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Candidate 9f3a", DisplayName(model.Session{ID: "a1b2c3d4-9f3a"}))
	assert.Equal(t, "Candidate ab", DisplayName(model.Session{ID: "ab"}))
	assert.Equal(t, "Ana", DisplayName(model.Session{ID: "x", CandidateName: " Ana "}))
}
