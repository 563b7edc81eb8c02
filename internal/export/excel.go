// Package export renders recruiter reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/hirepulse/hirepulse-backend/internal/scoring"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet     = "Summary"
	LeaderboardSheet = "Leaderboard"
	AnswersSheet     = "Answers"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename is the download name for an exam report.
func Filename(code string) string {
	return fmt.Sprintf("hirepulse-%s-results.xlsx", code)
}

// WriteExamResults writes a workbook with the exam summary, the ranked
// candidates and every recorded answer. sessions are in completion order.
func WriteExamResults(w io.Writer, exam *model.ExamConfig, sessions []model.Session, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(LeaderboardSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(AnswersSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSummary(f, header, exam, sessions, generatedAt); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeLeaderboard(f, header, sessions); err != nil {
		return fmt.Errorf("leaderboard sheet: %w", err)
	}
	if err := writeAnswers(f, header, sessions); err != nil {
		return fmt.Errorf("answers sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSummary(f *excelize.File, header int, exam *model.ExamConfig, sessions []model.Session, generatedAt time.Time) error {
	completed, violations := 0, 0
	for _, s := range sessions {
		if s.Status == model.SessionStatusViolationTabSwitch {
			violations++
		} else {
			completed++
		}
	}

	rows := [][]any{
		{"Assessment Report", ""},
		{"Access Code", exam.Code},
		{"Company", exam.CompanyName},
		{"Role", exam.Role},
		{"Category", string(exam.Category)},
		{"Difficulty", string(exam.Difficulty)},
		{"Invited Candidates", len(exam.InvitedEmails)},
		{"Sessions", len(sessions)},
		{"Completed", completed},
		{"Tab-Switch Violations", violations},
		{"Average Score", scoring.OverallAverage(sessions)},
		{"Generated", generatedAt.Format("2006-01-02 15:04:05")},
	}
	if err := writeRows(f, SummarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return err
	}
	if err := f.MergeCell(SummarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "B", 40)
}

func writeLeaderboard(f *excelize.File, header int, sessions []model.Session) error {
	rows := [][]any{{"Rank", "Name", "Email", "Score", "Status"}}
	for _, e := range scoring.Leaderboard(sessions, scoring.Filter{}) {
		rows = append(rows, []any{e.Rank, e.Name, e.Email, e.Score, string(e.Status)})
	}
	if err := writeRows(f, LeaderboardSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(LeaderboardSheet, "A1", "E1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(LeaderboardSheet, "B", "C", 30); err != nil {
		return err
	}
	return f.SetPanes(LeaderboardSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeAnswers(f *excelize.File, header int, sessions []model.Session) error {
	rows := [][]any{{"Candidate", "Email", "Question #", "Question", "Answer", "Score", "Feedback"}}
	for _, s := range sessions {
		name := scoring.DisplayName(s)
		for i, a := range s.Answers {
			rows = append(rows, []any{name, s.UserEmail, i + 1, a.QuestionText, a.AnswerText, a.Score, a.Feedback})
		}
	}
	if err := writeRows(f, AnswersSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(AnswersSheet, "A1", "G1", header); err != nil {
		return err
	}
	return f.SetColWidth(AnswersSheet, "D", "G", 50)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
