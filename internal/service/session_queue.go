package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// PersistenceQueue hands sessions and proctoring events to the background
// workers through Redis lists.
type PersistenceQueue struct {
	rdb *redis.Client
}

func NewPersistenceQueue(rdb *redis.Client) *PersistenceQueue {
	return &PersistenceQueue{rdb: rdb}
}

// EnqueueSession pushes a completed session onto the persistence queue.
func (q *PersistenceQueue) EnqueueSession(ctx context.Context, s model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.PersistSessionsQueue, data).Err(); err != nil {
		return fmt.Errorf("enqueue session: %w", err)
	}
	return nil
}

// EnqueueProctoringEvent pushes an audit event onto the proctoring queue.
func (q *PersistenceQueue) EnqueueProctoringEvent(ctx context.Context, e model.ProctoringEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal proctoring event: %w", err)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistProctoringQueue, data).Err()
}
