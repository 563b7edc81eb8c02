package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes the lock only if it still holds our token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInterviewLocks keeps one SetNX lock per candidate email.
type RedisInterviewLocks struct {
	rdb *redis.Client
}

func NewRedisInterviewLocks(rdb *redis.Client) *RedisInterviewLocks {
	return &RedisInterviewLocks{rdb: rdb}
}

func (l *RedisInterviewLocks) Acquire(ctx context.Context, email, token string) (bool, error) {
	return l.rdb.SetNX(ctx, config.CacheKey.ActiveInterviewKey(email), token, activeInterviewTTL).Result()
}

func (l *RedisInterviewLocks) Release(ctx context.Context, email, token string) error {
	err := releaseLockScript.Run(ctx, l.rdb, []string{config.CacheKey.ActiveInterviewKey(email)}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// RedisMonitorFeed keeps the live hash read by MonitorService and fans
// events out over Pub/Sub to the SSE stream.
type RedisMonitorFeed struct {
	rdb *redis.Client
}

func NewRedisMonitorFeed(rdb *redis.Client) *RedisMonitorFeed {
	return &RedisMonitorFeed{rdb: rdb}
}

func (f *RedisMonitorFeed) Publish(ctx context.Context, code string, ev MonitorEvent, remove bool) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	liveKey := config.CacheKey.ExamLiveKey(code)
	pipe := f.rdb.Pipeline()
	if remove {
		pipe.HDel(ctx, liveKey, ev.Email)
	} else {
		pipe.HSet(ctx, liveKey, ev.Email, data)
		pipe.Expire(ctx, liveKey, liveEntryTTL)
	}
	pipe.Publish(ctx, config.CacheKey.ExamMonitorChannel(code), data)
	_, err = pipe.Exec(ctx)
	return err
}
