package services

import (
	"context"
	"errors"
	"time"

	"github.com/zapstore/chat-gateway/pkg/logger"
	"github.com/zapstore/chat-gateway/pkg/redis"
)

var ErrLockTimeout = errors.New("could not acquire session lock")

const lockRetryDelay = 25 * time.Millisecond

// SessionLock serializes session read-modify-write per customer. Two
// deliveries for the same sender otherwise race on the stored session and
// one update is lost. The lock is a redis SET NX with a TTL so a crashed
// holder cannot wedge the customer forever.
type SessionLock struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewSessionLock(adapter redis.RedisAdapter, ttl time.Duration) *SessionLock {
	return &SessionLock{
		redis: adapter,
		ttl:   ttl,
	}
}

// Acquire blocks until the customer's lock is held, the context ends, or
// the lock TTL worth of waiting has passed. The returned release func is
// safe to call exactly once, normally via defer.
func (l *SessionLock) Acquire(ctx context.Context, customerID string) (func(), error) {
	key := "session-lock:" + customerID
	deadline := time.Now().Add(l.ttl)

	for {
		ok, err := l.redis.SetNX(key, []byte("1"), l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				if err := l.redis.Del(key); err != nil {
					logger.Warn("failed to release session lock", "customer_id", customerID, "error", err)
				}
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}
