package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/facteam/blog-api/config"
)

// Job is one queued notification task. Attempts counts deliveries already
// tried, so a re-enqueued job carries its history with it.
type Job struct {
	ID       string `json:"id"`
	PostID   uint   `json:"post_id"`
	Attempts int    `json:"attempts"`
}

// Queue is the outbound task queue that decouples notification fan-out from
// the request/response lifecycle.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks up to timeout. ok is false when nothing arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (job Job, ok bool, err error)
	Close() error
}

const redisQueueKey = "notify:newpost"

// RedisQueue is a Redis list-backed Queue (LPUSH producer, BRPOP consumer),
// so queued jobs survive process restarts.
type RedisQueue struct {
	rdb *redis.Client
}

// NewRedisQueue builds a queue on a dedicated Redis connection.
func NewRedisQueue(cfg config.AppConfig) *RedisQueue {
	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, redisQueueKey, b).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	res, err := q.rdb.BRPop(ctx, timeout, redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, false, nil
		}
		return Job{}, false, err
	}
	// BRPOP returns [key, value]
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, false, err
	}
	return job, true, nil
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}

// MemoryQueue is an in-process Queue used in tests and when Redis is not
// configured.
type MemoryQueue struct {
	ch chan Job
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Job, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case job := <-q.ch:
		return job, true, nil
	case <-timer.C:
		return Job{}, false, nil
	case <-ctx.Done():
		return Job{}, false, ctx.Err()
	}
}

func (q *MemoryQueue) Close() error { return nil }

// Len reports queued jobs; test helper.
func (q *MemoryQueue) Len() int { return len(q.ch) }
