package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when a loan stays locked until ctx ends.
var ErrLockNotAcquired = errors.New("loan lock not acquired")

// UnlockFunc releases a lock taken by LoanLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// LoanLocker serializes read-modify-write cycles on one loan.
type LoanLocker interface {
	Lock(ctx context.Context, loanID string) (UnlockFunc, error)
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryEvery time.Duration
}

// NewRedisLocker returns a LoanLocker shared by every process using client.
// A lock expires after ttl even if its holder never releases it.
func NewRedisLocker(client *redis.Client, ttl time.Duration) LoanLocker {
	return &redisLocker{client: client, ttl: ttl, retryEvery: 50 * time.Millisecond}
}

func (l *redisLocker) Lock(ctx context.Context, loanID string) (UnlockFunc, error) {
	key := "lock:loan:" + loanID
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(l.retryEvery)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockNotAcquired
		case <-ticker.C:
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LocalLocker is an in-process LoanLocker. It only serializes callers
// sharing the same instance. A loan's slot lives while someone holds or
// waits for it.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*localSlot)}
}

func (l *LocalLocker) acquire(loanID string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[loanID]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[loanID] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalLocker) release(loanID string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, loanID)
	}
}

func (l *LocalLocker) Lock(ctx context.Context, loanID string) (UnlockFunc, error) {
	slot := l.acquire(loanID)
	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(loanID, slot)
		return nil, ErrLockNotAcquired
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-slot.ch
			l.release(loanID, slot)
		})
		return nil
	}, nil
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
