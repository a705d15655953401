package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
)

// releaseScript deletes the lock key only when it is still owned by the
// caller, so a lock that expired and was re-acquired by another process is
// never deleted by the original holder.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// redisCommands is the slice of the Redis client the locker needs
type redisCommands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker implements the per-user lock on Redis for multi-process
// deployments. Acquisition is SET NX with an expiry guarding against a
// crashed holder; waiting acquirers poll until the context is done.
//
// Contenders within one process are serialized on a local one-slot channel
// before touching Redis. That keeps exactly one owner token live per name in
// this process: a second goroutine can never store its token over the current
// holder's, which would let the holder's Release pass the ownership check
// with someone else's token after a lease expiry.
type RedisLocker struct {
	client        redisCommands
	logger        coreport.Logger
	expiration    time.Duration
	retryInterval time.Duration

	local  sync.Map // map[string]chan struct{}, one slot per lock name
	tokens sync.Map // map[string]string, lock name -> owner token
}

// NewRedisLocker creates a Redis-backed locker. expiration bounds how long a
// crashed process can keep a user's ledger locked.
func NewRedisLocker(client redisCommands, logger coreport.Logger, expiration, retryInterval time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		logger:        logger,
		expiration:    expiration,
		retryInterval: retryInterval,
	}
}

func (l *RedisLocker) slot(name string) chan struct{} {
	slot, ok := l.local.Load(name)
	if !ok {
		slot, _ = l.local.LoadOrStore(name, make(chan struct{}, 1))
	}
	return slot.(chan struct{})
}

// Acquire blocks until the named lock is held or ctx is done
func (l *RedisLocker) Acquire(ctx context.Context, name string) error {
	select {
	case l.slot(name) <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	token, err := newToken()
	if err != nil {
		<-l.slot(name)
		return err
	}

	for {
		acquired, err := l.client.SetNX(ctx, l.key(name), token, l.expiration).Result()
		if err != nil {
			<-l.slot(name)
			return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
		}
		if acquired {
			l.tokens.Store(name, token)
			return nil
		}

		select {
		case <-ctx.Done():
			<-l.slot(name)
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// Release releases the named lock if this locker still owns it
func (l *RedisLocker) Release(ctx context.Context, name string) error {
	tokenIface, ok := l.tokens.LoadAndDelete(name)
	if !ok {
		return ErrNotLocked
	}
	defer func() {
		select {
		case <-l.slot(name):
		default:
		}
	}()

	result, err := l.client.Eval(ctx, releaseScript, []string{l.key(name)}, tokenIface).Result()
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	if deleted, ok := result.(int64); ok && deleted == 0 {
		// The lock expired and may have been taken over; nothing to delete
		// but the critical section outlived its lease.
		l.logger.Warn("Releasing a lock that already expired", map[string]any{
			"lock": name,
		})
	}
	return nil
}

func (l *RedisLocker) key(name string) string {
	return "credit:lock:" + name
}

// newToken generates a random owner token for lock holder verification
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
