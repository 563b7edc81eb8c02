package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MonitorService builds the recruiter live-monitor view of an exam.
type MonitorService struct {
	monitorRepo *repository.MonitorRepository
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewMonitorService(monitorRepo *repository.MonitorRepository, sessionRepo *repository.SessionRepository, rdb *redis.Client, log zerolog.Logger) *MonitorService {
	return &MonitorService{
		monitorRepo: monitorRepo,
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "monitor_service").Logger(),
	}
}

// MonitorSnapshot is the state a recruiter sees on attach and on refresh.
type MonitorSnapshot struct {
	Type             string           `json:"type"`
	ExamCode         string           `json:"exam_code"`
	Live             []MonitorEvent   `json:"live"`
	Completed        int              `json:"completed"`
	Violations       int              `json:"violations"`
	ProctoringCounts map[string]int64 `json:"proctoring_counts"`
	TotalProctoring  int64            `json:"total_proctoring"`
}

// Snapshot fetches live candidates, session counts and proctoring counts
// concurrently. Live progress is required; the rest is best-effort.
func (s *MonitorService) Snapshot(ctx context.Context, code string) (*MonitorSnapshot, error) {
	snap := &MonitorSnapshot{
		Type:             "snapshot",
		ExamCode:         code,
		Live:             []MonitorEvent{},
		ProctoringCounts: map[string]int64{},
	}

	var (
		live          map[string]string
		liveErr       error
		completed     int
		violations    int
		countErr      error
		proctoring    map[string]int64
		proctoringErr error
		wg            sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		live, liveErr = s.rdb.HGetAll(ctx, config.CacheKey.ExamLiveKey(code)).Result()
	}()
	go func() {
		defer wg.Done()
		completed, violations, countErr = s.sessionRepo.CountByExam(ctx, code)
	}()
	go func() {
		defer wg.Done()
		proctoring, proctoringErr = s.monitorRepo.GetProctoringCounts(ctx, code)
	}()
	wg.Wait()

	if liveErr != nil {
		return nil, liveErr
	}
	for email, raw := range live {
		var ev MonitorEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			s.log.Warn().Str("email", email).Msg("Skipping corrupt live monitor entry")
			continue
		}
		snap.Live = append(snap.Live, ev)
	}
	sort.Slice(snap.Live, func(i, j int) bool { return snap.Live[i].Email < snap.Live[j].Email })

	if countErr == nil {
		snap.Completed, snap.Violations = completed, violations
	} else {
		s.log.Warn().Err(countErr).Str("exam_code", code).Msg("Failed to count exam sessions")
	}
	if proctoringErr == nil {
		snap.ProctoringCounts = proctoring
		for _, n := range proctoring {
			snap.TotalProctoring += n
		}
	}
	return snap, nil
}

// Subscribe attaches to the exam's monitor channel.
func (s *MonitorService) Subscribe(ctx context.Context, code string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.ExamMonitorChannel(code))
}
