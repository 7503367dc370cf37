package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/H2Siting/pkg/errors"
)

// RevocationStore denies session tokens before they expire. Single tokens
// are revoked by their id; a user marker revokes every token of an account.
type RevocationStore struct {
	client *Client
	prefix string
}

func NewRevocationStore(client *Client, prefix string) *RevocationStore {
	return &RevocationStore{client: client, prefix: prefix + "revoked:"}
}

func (s *RevocationStore) tokenKey(tokenID string) string {
	return s.prefix + "token:" + tokenID
}

func (s *RevocationStore) userKey(userID int64) string {
	return s.prefix + "user:" + strconv.FormatInt(userID, 10)
}

// RevokeToken denies tokenID for ttl. A token already past its expiry needs
// no entry.
func (s *RevocationStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.tokenKey(tokenID), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to revoke session token")
	}
	return nil
}

// RevokeUser denies every token of userID for ttl, which should be the
// longest lifetime a token can have.
func (s *RevocationStore) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	if userID <= 0 || ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.userKey(userID), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to revoke user sessions")
	}
	return nil
}

// IsRevoked reports whether tokenID or any token of userID was revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string, userID int64) (bool, error) {
	keys := []string{s.userKey(userID)}
	if tokenID != "" {
		keys = append(keys, s.tokenKey(tokenID))
	}
	n, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to check session revocation")
	}
	return n > 0, nil
}

//Personal.AI order the ending
