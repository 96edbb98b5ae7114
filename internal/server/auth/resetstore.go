package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sangvinij/user-management-micro-service/internal/common"
)

const resetKeyPrefix = "password_reset:"

// PasswordResetStore keeps single-use, short-lived password reset tokens in
// Redis, keyed by an opaque random token and holding the user id. Unlike
// the blacklist it fails closed: a reset cannot be honored while the store
// is unreachable.
type PasswordResetStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewPasswordResetStore builds a store whose tokens expire after ttl.
func NewPasswordResetStore(client redis.UniversalClient, ttl time.Duration) *PasswordResetStore {
	return &PasswordResetStore{client: client, ttl: ttl}
}

// Create mints a random reset token bound to the given user id.
func (s *PasswordResetStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, resetKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("reset store write: %w", err)
	}

	return token, nil
}

// Consume resolves a reset token to its user id and deletes it, so a token
// can only be redeemed once. Unknown or expired tokens yield
// common.ErrMalformedToken.
func (s *PasswordResetStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrMalformedToken
		}
		return "", fmt.Errorf("reset store read: %w", err)
	}
	return userID, nil
}
