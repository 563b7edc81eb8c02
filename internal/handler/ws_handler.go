package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hirepulse/hirepulse-backend/internal/interview"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	ws "github.com/hirepulse/hirepulse-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives the interview state machine over a WebSocket.
type WSHandler struct {
	interviews *service.InterviewService
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews *service.InterviewService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// InterviewStream godoc
// WS /ws/v1/interview/stream?token=...
// One connection is one interview. Closing the connection abandons the
// interview; finalize and cancel close it from the server side.
func (h *WSHandler) InterviewStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	w := ws.NewWriter(conn)
	wsLog := h.log.With().Str("email", claims.Email).Str("exam_code", claims.ExamCode).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live, err := h.interviews.Open(ctx, claims, func(ev interview.Event) { forwardEvent(w, ev) })
	if err != nil {
		_, code := errorStatus(err)
		if code == response.ErrInternal {
			wsLog.Error().Err(err).Msg("Failed to open interview")
		}
		_ = w.WriteError(string(code), response.GetMessage(code))
		_ = w.Close(websocket.ClosePolicyViolation, string(code))
		return
	}

	var inflight sync.WaitGroup
	defer func() {
		live.Close()
		inflight.Wait()
	}()

	// long-running actions run off the read loop so visibility reports can
	// preempt an evaluation in flight
	async := func(fn func() error) {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if err := fn(); err != nil {
				h.writeErr(w, wsLog, err)
			}
		}()
	}

	m := live.Machine()
	_ = w.WriteTyped(ws.StateResponse{Event: ws.EventState, Snapshot: m.Snapshot()})
	wsLog.Info().Bool("proctored", live.Proctored()).Msg("Interview stream connected")

	for {
		data, err := ws.ReadMessage(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var env ws.RequestEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			_ = w.WriteError(string(response.ErrInvalidPayload), response.GetMessage(response.ErrInvalidPayload))
			continue
		}

		switch env.Action {
		case ws.ActionConfigure:
			var req ws.ConfigureRequest
			if err := json.Unmarshal(data, &req); err != nil {
				_ = w.WriteError(string(response.ErrInvalidPayload), response.GetMessage(response.ErrInvalidPayload))
				continue
			}
			params := interview.Params{Role: req.Role, Category: req.Category, Difficulty: req.Difficulty}
			if err := m.Configure(params); err != nil {
				h.writeErr(w, wsLog, err)
			}

		case ws.ActionStart:
			async(func() error { return m.Start(ctx) })

		case ws.ActionAcceptGuidelines:
			if err := m.AcceptGuidelines(); err != nil {
				h.writeErr(w, wsLog, err)
			}

		case ws.ActionBegin:
			if err := m.Begin(); err != nil {
				h.writeErr(w, wsLog, err)
			}

		case ws.ActionSubmit:
			var req ws.SubmitRequest
			if err := json.Unmarshal(data, &req); err != nil {
				_ = w.WriteError(string(response.ErrInvalidPayload), response.GetMessage(response.ErrInvalidPayload))
				continue
			}
			async(func() error { return m.Submit(ctx, req.Answer) })

		case ws.ActionPass:
			async(func() error { return m.Pass(ctx) })

		case ws.ActionVisibility:
			var req ws.VisibilityRequest
			if err := json.Unmarshal(data, &req); err == nil && req.State == ws.VisibilityHidden {
				m.VisibilityLost()
			}

		case ws.ActionFinalize:
			out, err := live.Finalize(ctx)
			if err != nil {
				h.writeErr(w, wsLog, err)
				continue
			}
			_ = w.WriteTyped(ws.CompletedResponse{
				Event:     ws.EventCompleted,
				Session:   out.Session,
				Snapshot:  m.Snapshot(),
				Persisted: out.PersistErr == nil,
			})
			_ = w.Close(websocket.CloseNormalClosure, "session complete")
			return

		case ws.ActionCancel:
			if err := m.Cancel(); err != nil {
				h.writeErr(w, wsLog, err)
				continue
			}
			_ = w.Close(websocket.CloseNormalClosure, "session cancelled")
			return

		case ws.ActionState:
			_ = w.WriteTyped(ws.StateResponse{Event: ws.EventState, Snapshot: m.Snapshot()})

		case ws.ActionPing:
			_ = w.WriteTyped(ws.PongResponse{Event: ws.EventPong})

		default:
			wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
			_ = w.WriteError(string(response.ErrInvalidPayload), "unknown action: "+string(env.Action))
		}
	}
}

// forwardEvent relays machine events. Completion is sent by the finalize
// action itself, which knows whether persistence succeeded.
func forwardEvent(w *ws.Writer, ev interview.Event) {
	switch ev.Kind {
	case interview.EventAnswerRecorded:
		if ev.Answer != nil {
			_ = w.WriteTyped(ws.AnswerRecordedResponse{Event: ws.EventAnswerRecorded, Answer: *ev.Answer, Snapshot: ev.Snapshot})
		}
	case interview.EventStateChanged, interview.EventSuspended:
		_ = w.WriteTyped(ws.StateResponse{Event: ws.EventState, Snapshot: ev.Snapshot})
	}
}

func (h *WSHandler) writeErr(w *ws.Writer, log zerolog.Logger, err error) {
	if errors.Is(err, interview.ErrClosed) {
		return
	}
	_, code := errorStatus(err)
	if code == response.ErrInternal {
		log.Error().Err(err).Msg("Interview action failed")
	}
	_ = w.WriteError(string(code), response.GetMessage(code))
}
