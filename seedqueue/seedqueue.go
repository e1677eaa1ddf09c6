// Package seedqueue is a Redis-backed work queue of pending generation
// jobs: independent generator workers pop a (config name, seed bytes)
// pair and hand it to the pure generator.Generate entry point. The core
// generation engine never imports this package; it is strictly a
// harness concern for fanning generation out across workers.
package seedqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type (
	// Queue pushes and pops generation jobs.
	Queue interface {
		// Push enqueues job, returning immediately.
		Push(ctx context.Context, job Job) error

		// Pop blocks up to timeout for the next job, returning
		// (nil, false, nil) if none arrived before the deadline.
		Pop(ctx context.Context, timeout time.Duration) (*Job, bool, error)

		// Len reports the number of jobs currently waiting.
		Len(ctx context.Context) (int64, error)
	}

	// Job is one pending generation request.
	Job struct {
		RunID      string `json:"run_id"`
		ConfigName string `json:"config_name"`
		Seed       []byte `json:"seed"`
	}

	// Options configures the Redis-backed queue.
	Options struct {
		Redis *redis.Client
		// Key is the Redis list key jobs are pushed/popped from.
		// Defaults to "smithgen:seeds" if not provided.
		Key string
	}

	queue struct {
		rdb redisClient
		key string
	}

	// redisClient narrows *redis.Client to the list commands the queue
	// needs, so tests can swap in a fake without a live Redis server.
	redisClient interface {
		LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
		BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
		LLen(ctx context.Context, key string) *redis.IntCmd
	}
)

const defaultKey = "smithgen:seeds"

// New returns a Queue backed by the provided Redis client.
func New(opts Options) (Queue, error) {
	if opts.Redis == nil {
		return nil, errors.New("seedqueue: redis client is required")
	}
	key := opts.Key
	if key == "" {
		key = defaultKey
	}
	return &queue{rdb: opts.Redis, key: key}, nil
}

func newQueueWithClient(rdb redisClient, key string) (*queue, error) {
	if rdb == nil {
		return nil, errors.New("seedqueue: redis client is required")
	}
	if key == "" {
		key = defaultKey
	}
	return &queue{rdb: rdb, key: key}, nil
}

func (q *queue) Push(ctx context.Context, job Job) error {
	if job.ConfigName == "" {
		return errors.New("seedqueue: config name is required")
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("seedqueue: marshal job: %w", err)
	}
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

func (q *queue) Pop(ctx context.Context, timeout time.Duration) (*Job, bool, error) {
	result, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// BRPop returns [key, value]; the payload is the second element.
	if len(result) != 2 {
		return nil, false, fmt.Errorf("seedqueue: unexpected BRPOP result shape %v", result)
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, false, fmt.Errorf("seedqueue: unmarshal job: %w", err)
	}
	return &job, true, nil
}

func (q *queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
