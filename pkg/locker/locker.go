// Пакет locker реализует взаимное исключение по ключу (id оборудования).
// Цикл "прочитал-проверил-записал" любой мутации выполняется целиком под
// блокировкой своего оборудования; разные id никогда не конкурируют.
package locker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "allocation-system/pkg/errors"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyedLocker выдаёт по одной блокировке на ключ с ограниченным ожиданием.
// Семафор веса 1 вместо sync.Mutex — ради Acquire с контекстом: ожидание
// прерывается по таймауту или отмене вызывающего без побочных эффектов.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[uint64]*entry
	timeout time.Duration
}

func New(timeout time.Duration) *KeyedLocker {
	return &KeyedLocker{
		entries: make(map[uint64]*entry),
		timeout: timeout,
	}
}

// Lock захватывает блокировку ключа и возвращает функцию освобождения.
// Если блокировку не удалось получить за отведённое время, возвращается
// ErrConcurrency — вызывающий повторяет операцию целиком.
func (l *KeyedLocker) Lock(ctx context.Context, key uint64) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	acquireCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		l.release(key, e, false)
		return nil, apperrors.ErrConcurrency
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			l.release(key, e, true)
		})
	}
	return unlock, nil
}

func (l *KeyedLocker) release(key uint64, e *entry, held bool) {
	if held {
		e.sem.Release(1)
	}
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
