package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLimiter_AcquireRelease(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, 2, limiter.Available())

	require.NoError(t, limiter.Acquire(ctx, "a"))
	require.NoError(t, limiter.Acquire(ctx, "b"))
	assert.Equal(t, 2, limiter.ActiveCount())
	assert.Equal(t, 0, limiter.Available())

	limiter.Release("a")
	assert.Equal(t, 1, limiter.ActiveCount())

	// A released key can be acquired again.
	require.NoError(t, limiter.Acquire(ctx, "a"))
	limiter.Release("a")

	limiter.Release("b")
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestImportLimiter_SameKeyRejected(t *testing.T) {
	limiter := NewImportLimiter(5, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx, "preview-1"))
	defer limiter.Release("preview-1")

	start := time.Now()
	err := limiter.Acquire(ctx, "preview-1")
	assert.ErrorIs(t, err, ErrImportInProgress)
	assert.Less(t, time.Since(start), 50*time.Millisecond, "duplicate Acquire should not block")
	assert.Equal(t, 1, limiter.ActiveCount())
}

func TestImportLimiter_BlocksWhenFull(t *testing.T) {
	limiter := NewImportLimiter(1, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx, "a"))

	start := time.Now()
	err := limiter.Acquire(ctx, "b")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTooManyImports)
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)

	// The rejected key does not stay reserved.
	limiter.Release("a")
	require.NoError(t, limiter.Acquire(ctx, "b"))
	limiter.Release("b")
}

func TestImportLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	const totalRequests = 10

	limiter := NewImportLimiter(maxConcurrent, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := 0

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()

			if err := limiter.Acquire(context.Background(), key); err != nil {
				t.Errorf("Acquire(%s): %v", key, err)
				return
			}
			defer limiter.Release(key)

			mu.Lock()
			maxObserved = max(maxObserved, limiter.ActiveCount())
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
		}(fmt.Sprintf("preview-%d", i))
	}

	wg.Wait()

	assert.LessOrEqual(t, maxObserved, maxConcurrent)
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestImportLimiter_ContextCancellation(t *testing.T) {
	limiter := NewImportLimiter(1, 5*time.Second)
	require.NoError(t, limiter.Acquire(context.Background(), "a"))
	defer limiter.Release("a")

	cancelCtx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- limiter.Acquire(cancelCtx, "b")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after context cancellation")
	}
}

func TestImportLimiter_WaitForDrain(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx, "a"))
	require.NoError(t, limiter.Acquire(ctx, "b"))

	drainDone := make(chan error, 1)
	go func() {
		drainDone <- limiter.WaitForDrain(context.Background())
	}()

	select {
	case <-drainDone:
		t.Fatal("WaitForDrain returned too early")
	case <-time.After(50 * time.Millisecond):
	}

	limiter.Release("a")
	limiter.Release("b")

	select {
	case err := <-drainDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not complete after all released")
	}
}

func TestImportLimiter_WaitForDrainHonorsContext(t *testing.T) {
	limiter := NewImportLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background(), "a"))
	defer limiter.Release("a")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)
}

func TestImportLimiter_Status(t *testing.T) {
	limiter := NewImportLimiter(3, time.Second)

	assert.Equal(t, ImportLimiterStatus{Active: 0, Available: 3, MaxConcurrent: 3}, limiter.Status())

	require.NoError(t, limiter.Acquire(context.Background(), "a"))
	assert.Equal(t, ImportLimiterStatus{Active: 1, Available: 2, MaxConcurrent: 3}, limiter.Status())
	limiter.Release("a")
}

func TestImportLimiter_DefaultValues(t *testing.T) {
	limiter := NewImportLimiter(0, 0)

	assert.Equal(t, DefaultMaxConcurrentImports, limiter.MaxConcurrent())
	assert.Equal(t, DefaultMaxWaitTime, limiter.maxWait)
}
