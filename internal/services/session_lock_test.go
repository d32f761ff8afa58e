package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapstore/chat-gateway/pkg/redis"
)

func newTestLock(t *testing.T, ttl time.Duration) *SessionLock {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	return NewSessionLock(adapter, ttl)
}

func TestSessionLock_AcquireRelease(t *testing.T) {
	lock := newTestLock(t, time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "customer-1")
	require.NoError(t, err)
	release()

	// Released lock can be taken again immediately.
	release, err = lock.Acquire(ctx, "customer-1")
	require.NoError(t, err)
	release()
}

func TestSessionLock_DifferentCustomersDoNotContend(t *testing.T) {
	lock := newTestLock(t, time.Second)
	ctx := context.Background()

	r1, err := lock.Acquire(ctx, "customer-1")
	require.NoError(t, err)
	defer r1()

	r2, err := lock.Acquire(ctx, "customer-2")
	require.NoError(t, err)
	defer r2()
}

func TestSessionLock_SerializesSameCustomer(t *testing.T) {
	lock := newTestLock(t, 2*time.Second)
	ctx := context.Background()

	var mu sync.Mutex
	var inCritical int
	var maxInCritical int

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Acquire(ctx, "customer-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestSessionLock_TimesOut(t *testing.T) {
	lock := newTestLock(t, 100*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "customer-1")
	require.NoError(t, err)
	defer release()

	_, err = lock.Acquire(ctx, "customer-1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestSessionLock_HonorsContextCancellation(t *testing.T) {
	lock := newTestLock(t, 5*time.Second)

	release, err := lock.Acquire(context.Background(), "customer-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = lock.Acquire(ctx, "customer-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
