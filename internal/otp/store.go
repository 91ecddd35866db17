// Package otp keeps password-reset codes in Redis with a TTL, so every
// instance of the backend sees the same codes and restarts do not drop them.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:password-reset:"

var ErrNotFound = errors.New("otp not found or expired")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(addr, password string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: 10 * time.Minute,
	}
}

// Generate creates a six-digit code for the email and stores it under the
// reset TTL, replacing any previous code for the same address.
func (s *Store) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	if err := s.client.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code and consumes it on success, so a code can
// only be used once.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if stored != code {
		return errors.New("invalid otp")
	}

	return s.client.Del(ctx, keyPrefix+email).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
