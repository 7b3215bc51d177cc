package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "allocation-system/pkg/errors"
)

func TestLockTimeout(t *testing.T) {
	l := New(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)

	_, err = l.Lock(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrConcurrency)

	unlock()

	unlock2, err := l.Lock(ctx, 1)
	require.NoError(t, err, "после освобождения блокировка снова доступна")
	unlock2()
}

func TestDifferentKeysDoNotContend(t *testing.T) {
	l := New(50 * time.Millisecond)
	ctx := context.Background()

	unlock1, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	defer unlock1()

	unlock2, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlock2()
}

func TestLockMutualExclusion(t *testing.T) {
	l := New(time.Second)
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, 7)
			if err != nil {
				return
			}
			defer unlock()
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, counter, "все горутины прошли строго по очереди")
}

func TestLockCancelledBeforeAcquire(t *testing.T) {
	l := New(time.Second)

	unlock, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Lock(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrConcurrency, "отмена до захвата не оставляет следов")
}

func TestUnlockIsIdempotent(t *testing.T) {
	l := New(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	unlock()
	unlock() // повторный вызов ничего не ломает

	unlock2, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	unlock2()
}
