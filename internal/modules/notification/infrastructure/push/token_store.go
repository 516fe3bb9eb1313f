package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps the current device push token per user. Tokens are
// rotated by the OS at will, so last-write-wins is the right semantics.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(uid uuid.UUID) string {
	return fmt.Sprintf("push:token:%s", uid)
}

func (s *RedisTokenStore) Save(ctx context.Context, uid uuid.UUID, token string) error {
	if token == "" {
		return fmt.Errorf("empty push token")
	}
	return s.client.Set(ctx, tokenKey(uid), token, 0).Err()
}

// Current returns the stored token, or "" when the user has none.
func (s *RedisTokenStore) Current(ctx context.Context, uid uuid.UUID) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}
