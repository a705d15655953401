package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotLocked is returned when releasing a lock that is not held
var ErrNotLocked = errors.New("lock is not held")

// KeyedMutexLocker serializes critical sections per name inside a single
// process. Each name gets its own lock, so operations on different users
// proceed in parallel.
//
// Locks are implemented as one-slot channels rather than sync.Mutex so that
// a blocked Acquire can be abandoned when the caller's context is done.
type KeyedMutexLocker struct {
	locks sync.Map // map[string]chan struct{}
}

// NewKeyedMutexLocker creates an in-process keyed locker
func NewKeyedMutexLocker() *KeyedMutexLocker {
	return &KeyedMutexLocker{}
}

func (l *KeyedMutexLocker) slot(name string) chan struct{} {
	slot, ok := l.locks.Load(name)
	if !ok {
		slot, _ = l.locks.LoadOrStore(name, make(chan struct{}, 1))
	}
	return slot.(chan struct{})
}

// Acquire blocks until the named lock is held or ctx is done
func (l *KeyedMutexLocker) Acquire(ctx context.Context, name string) error {
	select {
	case l.slot(name) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases the named lock
func (l *KeyedMutexLocker) Release(_ context.Context, name string) error {
	select {
	case <-l.slot(name):
		return nil
	default:
		return ErrNotLocked
	}
}
