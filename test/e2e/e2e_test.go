//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "http://localhost:8080"
	password       = "password123"
)

var (
	baseURL        string
	runID          string
	recruiterToken string
	candidateToken string
	examToken      string
	examCode       string
)

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	runID = fmt.Sprintf("%d", time.Now().UnixNano())

	os.Exit(m.Run())
}

func recruiterEmail() string { return "e2e-recruiter-" + runID + "@example.com" }
func candidateEmail() string { return "e2e-candidate-" + runID + "@example.com" }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type wsMessage struct {
	Event    string `json:"event"`
	Code     string `json:"code"`
	Snapshot struct {
		State struct {
			Phase string `json:"phase"`
			Index int    `json:"index"`
		} `json:"state"`
		QuestionCount int `json:"question_count"`
		AnsweredCount int `json:"answered_count"`
	} `json:"snapshot"`
	Persisted bool `json:"persisted"`
}

func TestE2EFlow(t *testing.T) {
	t.Run("RecruiterSignUp", func(t *testing.T) {
		var out struct {
			Token string `json:"token"`
		}
		mustCall(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"email": recruiterEmail(), "password": password, "name": "E2E Recruiter", "role": "RECRUITER",
		}, "", http.StatusCreated, &out)
		recruiterToken = out.Token
	})

	t.Run("UpdateCompany", func(t *testing.T) {
		mustCall(t, http.MethodPut, "/api/v1/recruiter/company", map[string]string{
			"name": "E2E Corp",
		}, recruiterToken, http.StatusOK, nil)
	})

	t.Run("CreateExam", func(t *testing.T) {
		var out struct {
			Code        string `json:"code"`
			CompanyName string `json:"company_name"`
		}
		mustCall(t, http.MethodPost, "/api/v1/recruiter/exams", map[string]any{
			"role":           "Backend Engineer",
			"category":       "TECHNICAL",
			"difficulty":     "INTERMEDIATE",
			"invited_emails": []string{strings.ToUpper(candidateEmail())},
		}, recruiterToken, http.StatusCreated, &out)
		if len(out.Code) != 6 {
			t.Fatalf("access code %q is not 6 characters", out.Code)
		}
		if out.CompanyName != "E2E Corp" {
			t.Errorf("company name = %q, want E2E Corp", out.CompanyName)
		}
		examCode = out.Code
	})

	t.Run("CandidateSignUp", func(t *testing.T) {
		var out struct {
			Token string `json:"token"`
		}
		mustCall(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"email": candidateEmail(), "password": password, "name": "E2E Candidate", "role": "CANDIDATE",
		}, "", http.StatusCreated, &out)
		candidateToken = out.Token
	})

	t.Run("RecruiterCannotTakeExam", func(t *testing.T) {
		code := callErr(t, http.MethodPost, "/api/v1/auth/exam/login", map[string]string{
			"code": examCode, "email": recruiterEmail(), "password": password,
		}, "")
		if code != "CANDIDATE_ACCESS_ONLY" {
			t.Errorf("error code = %s, want CANDIDATE_ACCESS_ONLY", code)
		}
	})

	t.Run("ExamLogin", func(t *testing.T) {
		var out struct {
			Token string `json:"token"`
			Exam  struct {
				Code string `json:"code"`
			} `json:"exam"`
		}
		mustCall(t, http.MethodPost, "/api/v1/auth/exam/login", map[string]string{
			"code": strings.ToLower(examCode), "email": candidateEmail(), "password": password,
		}, "", http.StatusOK, &out)
		if out.Exam.Code != examCode {
			t.Fatalf("exam code = %s, want %s", out.Exam.Code, examCode)
		}
		examToken = out.Token
	})

	t.Run("ProctoredInterview", func(t *testing.T) {
		wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws/v1/interview/stream?token=" + url.QueryEscape(examToken)
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		msg := readWS(t, conn)
		if msg.Snapshot.State.Phase != "LOADING" {
			t.Fatalf("initial phase = %s, want LOADING", msg.Snapshot.State.Phase)
		}

		sendWS(t, conn, map[string]any{"action": "configure", "role": "x", "category": "CODING", "difficulty": "BEGINNER"})
		if msg := waitFor(t, conn, func(m wsMessage) bool { return m.Event == "error" }); msg.Code != "EXAM_PARAMETERS_LOCKED" {
			t.Errorf("configure error = %s, want EXAM_PARAMETERS_LOCKED", msg.Code)
		}

		sendWS(t, conn, map[string]any{"action": "start"})
		briefing := waitFor(t, conn, phaseIs("BRIEFING"))
		if briefing.Snapshot.QuestionCount == 0 {
			t.Fatal("no questions generated")
		}

		sendWS(t, conn, map[string]any{"action": "begin"})
		if msg := waitFor(t, conn, func(m wsMessage) bool { return m.Event == "error" }); msg.Code != "CONSENT_REQUIRED" {
			t.Errorf("begin error = %s, want CONSENT_REQUIRED", msg.Code)
		}

		sendWS(t, conn, map[string]any{"action": "accept_guidelines"})
		sendWS(t, conn, map[string]any{"action": "begin"})
		waitFor(t, conn, phaseIs("ACTIVE"))

		for i := 0; i < briefing.Snapshot.QuestionCount; i++ {
			sendWS(t, conn, map[string]any{"action": "submit", "answer": "I would start by clarifying requirements, then measure before optimizing."})
			waitFor(t, conn, func(m wsMessage) bool { return m.Event == "answer_recorded" })
		}
		waitFor(t, conn, phaseIs("REVIEWING"))

		sendWS(t, conn, map[string]any{"action": "finalize"})
		done := waitFor(t, conn, func(m wsMessage) bool { return m.Event == "completed" })
		if !done.Persisted {
			t.Error("session was not queued for persistence")
		}
	})

	t.Run("ExamTokenRevoked", func(t *testing.T) {
		code := callErr(t, http.MethodGet, "/api/v1/auth/me", nil, examToken)
		if code != "SESSION_INVALIDATED" {
			t.Errorf("error code = %s, want SESSION_INVALIDATED", code)
		}
	})

	t.Run("RecruiterLeaderboard", func(t *testing.T) {
		deadline := time.Now().Add(15 * time.Second)
		for {
			var rows []struct {
				Email  string `json:"email"`
				Status string `json:"status"`
			}
			mustCall(t, http.MethodGet, "/api/v1/recruiter/leaderboard?exam="+examCode, nil, recruiterToken, http.StatusOK, &rows)
			if len(rows) > 0 {
				if rows[0].Email != candidateEmail() {
					t.Errorf("leaderboard email = %s, want %s", rows[0].Email, candidateEmail())
				}
				if rows[0].Status != "COMPLETED" {
					t.Errorf("status = %s, want COMPLETED", rows[0].Status)
				}
				return
			}
			if time.Now().After(deadline) {
				t.Fatal("session never reached the leaderboard")
			}
			time.Sleep(500 * time.Millisecond)
		}
	})

	t.Run("ExportResults", func(t *testing.T) {
		resp, err := do(http.MethodGet, "/api/v1/recruiter/exams/"+examCode+"/export", nil, recruiterToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
			t.Errorf("content type = %s", ct)
		}
	})

	t.Run("CandidateDashboard", func(t *testing.T) {
		var out struct {
			TotalSessions int `json:"total_sessions"`
		}
		mustCall(t, http.MethodGet, "/api/v1/candidate/dashboard", nil, candidateToken, http.StatusOK, &out)
		if out.TotalSessions < 1 {
			t.Errorf("total sessions = %d, want at least 1", out.TotalSessions)
		}
	})
}

// Helpers

func phaseIs(phase string) func(wsMessage) bool {
	return func(m wsMessage) bool { return m.Event == "state" && m.Snapshot.State.Phase == phase }
}

func sendWS(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("ws write: %v", err)
	}
}

func readWS(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read: %v", err)
	}
	return msg
}

func waitFor(t *testing.T, conn *websocket.Conn, match func(wsMessage) bool) wsMessage {
	t.Helper()
	for i := 0; i < 100; i++ {
		if msg := readWS(t, conn); match(msg) {
			return msg
		}
	}
	t.Fatal("expected message never arrived")
	return wsMessage{}
}

func do(method, path string, body any, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}
	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 90 * time.Second}
	return client.Do(req)
}

func mustCall(t *testing.T, method, path string, body any, token string, wantStatus int, out any) {
	t.Helper()
	resp, err := do(method, path, body, token)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d: %s", method, path, resp.StatusCode, readBody(resp))
	}
	if out == nil {
		return
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("data decode: %v", err)
	}
}

func callErr(t *testing.T, method, path string, body any, token string) string {
	t.Helper()
	resp, err := do(method, path, body, token)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}
