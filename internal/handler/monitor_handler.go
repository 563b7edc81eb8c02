package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/rs/zerolog"
)

const (
	refreshInterval   = 15 * time.Second
	keepAliveInterval = 30 * time.Second
	refreshTimeout    = 5 * time.Second
)

// MonitorHandler streams live exam progress to the owning recruiter.
type MonitorHandler struct {
	examService    *service.ExamService
	monitorService *service.MonitorService
	log            zerolog.Logger
}

func NewMonitorHandler(examService *service.ExamService, monitorService *service.MonitorService, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		examService:    examService,
		monitorService: monitorService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
	}
}

// MonitorExamSSE godoc
// GET /api/v1/recruiter/exams/:code/monitor
// Sends a snapshot, then every candidate event as it happens, with
// periodic refreshes while candidates are active.
func (h *MonitorHandler) MonitorExamSSE(c *gin.Context) {
	claims := middleware.GetClaims(c)
	reqCtx := c.Request.Context()

	exam, err := h.examService.GetOwned(reqCtx, claims.Email, c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	code := exam.Code
	log := h.log.With().Str("exam_code", code).Str("recruiter", claims.Email).Logger()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	hasCandidates := h.sendSnapshot(c, reqCtx, code)

	pubsub := h.monitorService.Subscribe(reqCtx, code)
	defer pubsub.Close()
	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()
	refreshTicker := time.NewTicker(refreshInterval)
	defer refreshTicker.Stop()

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	log.Info().Msg("Recruiter attached to live monitor")
	for {
		select {
		case <-reqCtx.Done():
			log.Info().Msg("Recruiter detached from live monitor")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			// payload is already JSON
			writeSSE(c, []byte(msg.Payload))
			hasCandidates = true

		case <-refreshTicker.C:
			if !hasCandidates {
				continue
			}
			hasCandidates = h.sendSnapshot(c, reqCtx, code)

		case <-keepAliveTicker.C:
			writeSSE(c, pingPayload)
		}
	}
}

// sendSnapshot writes the current monitor state and reports whether any
// candidate is live.
func (h *MonitorHandler) sendSnapshot(c *gin.Context, parent context.Context, code string) bool {
	ctx, cancel := context.WithTimeout(parent, refreshTimeout)
	defer cancel()

	snap, err := h.monitorService.Snapshot(ctx, code)
	if err != nil {
		h.log.Warn().Err(err).Str("exam_code", code).Msg("Failed to build monitor snapshot")
		return true
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return true
	}
	writeSSE(c, data)
	return len(snap.Live) > 0
}

func writeSSE(c *gin.Context, payload []byte) {
	_, _ = c.Writer.Write([]byte("data: "))
	_, _ = c.Writer.Write(payload)
	_, _ = c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}
