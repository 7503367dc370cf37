package redis

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/H2Siting/pkg/errors"
)

// StateStore keeps one-time OAuth state values.
type StateStore struct {
	client *Client
	prefix string
	ttl    time.Duration
}

func NewStateStore(client *Client, prefix string, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{client: client, prefix: prefix + "oauth_state:", ttl: ttl}
}

// Issue stores and returns a fresh random state.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, s.prefix+state, "1", s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeCacheError, "failed to store oauth state")
	}
	return state, nil
}

// Consume reports whether state was issued and not yet used, deleting it.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, s.prefix+state).Err()
	if stderrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read oauth state")
	}
	return true, nil
}

//Personal.AI order the ending
