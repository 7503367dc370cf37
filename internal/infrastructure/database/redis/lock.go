package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// Mutex is a single-owner lock held in Redis until Unlock or TTL expiry.
// Replicas use it to serialize startup work such as schema migrations.
type Mutex struct {
	client     *Client
	logger     logging.Logger
	key        string
	value      string
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

type LockOption func(*Mutex)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(m *Mutex) { m.ttl = ttl }
}

func WithRetry(count int, delay time.Duration) LockOption {
	return func(m *Mutex) {
		m.retryCount = count
		m.retryDelay = delay
	}
}

func NewMutex(client *Client, log logging.Logger, name string, opts ...LockOption) *Mutex {
	m := &Mutex{
		client:     client,
		logger:     log,
		key:        "h2siting:lock:" + name,
		value:      uuid.NewString(),
		ttl:        30 * time.Second,
		retryDelay: 200 * time.Millisecond,
		retryCount: 50,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TryLock makes one acquisition attempt.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	return ok, nil
}

// Lock retries TryLock until it succeeds, the retries run out or ctx ends.
func (m *Mutex) Lock(ctx context.Context) error {
	for i := 0; i < m.retryCount; i++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryDelay):
		}
	}
	m.logger.Warn("lock not acquired", logging.String("key", m.key), logging.Int("attempts", m.retryCount))
	return ErrLockNotAcquired
}

func (m *Mutex) Unlock(ctx context.Context) error {
	n, err := m.client.RunScript(ctx, unlockScript, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

//Personal.AI order the ending
