package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/event"
	"github.com/hirepulse/hirepulse-backend/internal/metrics"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// SessionStore is the write side of the sessions table.
type SessionStore interface {
	Insert(ctx context.Context, s *model.Session) error
	InsertBatch(ctx context.Context, sessions []*model.Session) error
}

// SessionWorker drains persist_sessions_queue into PostgreSQL and announces
// every stored session on the event bus.
type SessionWorker struct {
	store     SessionStore
	publisher event.Publisher
	rdb       *redis.Client
	log       zerolog.Logger
}

func NewSessionWorker(store SessionStore, publisher event.Publisher, rdb *redis.Client, log zerolog.Logger) *SessionWorker {
	return &SessionWorker{
		store:     store,
		publisher: publisher,
		rdb:       rdb,
		log:       log.With().Str("component", "session_worker").Logger(),
	}
}

// Start runs until ctx is cancelled. Call in a goroutine.
func (w *SessionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SessionWorker started")

	buffer := make([]*model.Session, 0, BatchSize)
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

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistSessionsQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var s model.Session
		if err := json.Unmarshal([]byte(result[1]), &s); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed session")
			continue
		}
		buffer = append(buffer, &s)
	}
}

// flushSafe attempts a batch insert, then row-by-row, then requeue.
func (w *SessionWorker) flushSafe(ctx context.Context, batch []*model.Session) {
	if err := w.store.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Batch insert failed, attempting row-by-row recovery")
		metrics.WorkerFlushes.WithLabelValues("session", "fallback").Inc()
		w.fallbackInsert(ctx, batch)
		return
	}
	metrics.WorkerFlushes.WithLabelValues("session", "ok").Inc()
	for _, s := range batch {
		w.announce(ctx, s)
	}
}

func (w *SessionWorker) fallbackInsert(ctx context.Context, batch []*model.Session) {
	var failed []*model.Session
	for _, s := range batch {
		if err := w.store.Insert(ctx, s); err != nil {
			w.log.Error().Err(err).Str("session_id", s.ID).Msg("Insert failed, requeueing")
			failed = append(failed, s)
			continue
		}
		w.announce(ctx, s)
	}
	if len(failed) > 0 {
		w.requeue(ctx, failed)
	}
}

func (w *SessionWorker) announce(ctx context.Context, s *model.Session) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishSessionCompleted(ctx, event.NewSessionCompleted(s)); err != nil {
		w.log.Warn().Err(err).Str("session_id", s.ID).Msg("Failed to publish session.completed")
	}
}

func (w *SessionWorker) requeue(ctx context.Context, items []*model.Session) {
	pipe := w.rdb.Pipeline()
	for _, s := range items {
		data, _ := json.Marshal(s)
		pipe.RPush(ctx, config.WorkerKey.PersistSessionsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.WorkerFlushes.WithLabelValues("session", "lost").Inc()
		w.log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: Failed to requeue sessions. Data loss occurred.")
		return
	}
	metrics.WorkerFlushes.WithLabelValues("session", "requeued").Inc()
	w.log.Info().Int("count", len(items)).Msg("Requeued failed sessions")
	time.Sleep(2 * time.Second)
}

func (w *SessionWorker) shutdown(buffer []*model.Session) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if len(buffer) > 0 {
		w.flushSafe(ctx, buffer)
	}
	w.log.Info().Msg("Worker stopped")
}
