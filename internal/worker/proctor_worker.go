package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/metrics"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProctoringStore is the write side of the proctoring audit trail.
type ProctoringStore interface {
	CopyProctoringEvents(ctx context.Context, events []*model.ProctoringEvent) error
	InsertProctoringEvent(ctx context.Context, e *model.ProctoringEvent) error
}

// ProctorWorker drains persist_proctoring_queue with COPY.
type ProctorWorker struct {
	store ProctoringStore
	rdb   *redis.Client
	log   zerolog.Logger
}

func NewProctorWorker(store ProctoringStore, rdb *redis.Client, log zerolog.Logger) *ProctorWorker {
	return &ProctorWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "proctor_worker").Logger(),
	}
}

func (w *ProctorWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ProctorWorker started")

	buffer := make([]*model.ProctoringEvent, 0, BatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= BatchSize || time.Since(lastFlush) >= BatchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistProctoringQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var e model.ProctoringEvent
		if err := json.Unmarshal([]byte(result[1]), &e); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}
		buffer = append(buffer, &e)
	}
}

func (w *ProctorWorker) flushSafe(ctx context.Context, batch []*model.ProctoringEvent) {
	if err := w.store.CopyProctoringEvents(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("COPY failed, attempting row-by-row recovery")
		metrics.WorkerFlushes.WithLabelValues("proctoring", "fallback").Inc()
		w.fallbackInsert(ctx, batch)
		return
	}
	metrics.WorkerFlushes.WithLabelValues("proctoring", "ok").Inc()
}

func (w *ProctorWorker) fallbackInsert(ctx context.Context, batch []*model.ProctoringEvent) {
	var failed []*model.ProctoringEvent
	for _, e := range batch {
		if err := w.store.InsertProctoringEvent(ctx, e); err != nil {
			w.log.Error().Err(err).Str("email", e.Email).Str("exam_code", e.ExamCode).Msg("Insert failed, requeueing")
			failed = append(failed, e)
		}
	}
	if len(failed) == 0 {
		return
	}

	pipe := w.rdb.Pipeline()
	for _, e := range failed {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.PersistProctoringQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.WorkerFlushes.WithLabelValues("proctoring", "lost").Inc()
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue proctoring events. Data loss occurred.")
		return
	}
	metrics.WorkerFlushes.WithLabelValues("proctoring", "requeued").Inc()
	time.Sleep(2 * time.Second)
}

func (w *ProctorWorker) shutdown(buffer []*model.ProctoringEvent) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if len(buffer) > 0 {
		w.flushSafe(ctx, buffer)
	}
	w.log.Info().Msg("Worker stopped")
}
