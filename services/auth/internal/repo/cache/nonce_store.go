package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNonceNotFound = errors.New("nonce not found or expired")

func nonceKey(address string) string {
	return fmt.Sprintf("auth:nonce:%s", address)
}

// NonceStore holds one pending login nonce per address.
type NonceStore interface {
	Save(ctx context.Context, address, nonce string, ttl time.Duration) error
	// Consume returns the nonce and deletes it, so a signature is accepted once.
	Consume(ctx context.Context, address string) (string, error)
}

type nonceStore struct {
	rdb redis.Cmdable
}

func NewNonceStore(rdb redis.Cmdable) NonceStore {
	return &nonceStore{rdb: rdb}
}

func (s *nonceStore) Save(ctx context.Context, address, nonce string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, nonceKey(address), nonce, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %w", err)
	}
	return nil
}

func (s *nonceStore) Consume(ctx context.Context, address string) (string, error) {
	nonce, err := s.rdb.GetDel(ctx, nonceKey(address)).Result()
	if err == redis.Nil {
		return "", ErrNonceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read nonce: %w", err)
	}
	return nonce, nil
}
