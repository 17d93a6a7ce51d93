package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/repository"
)

// KeyPrefix namespaces cart snapshots, one JSON array per session key.
const KeyPrefix = "orderup-cart:"

// CartRepository implements port.CartRepository on Redis.
type CartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart store. A zero ttl keeps
// snapshots until they are deleted.
func NewCartRepository(client redis.UniversalClient, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Load returns the lines stored for the session, none if the key is absent.
func (r *CartRepository) Load(ctx context.Context, sessionKey string) ([]domain.Line, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("sessionKey is empty")
	}

	data, err := r.client.Get(ctx, KeyPrefix+sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	lines, err := repository.UnmarshalLines(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return lines, nil
}

// Save overwrites the session's snapshot and refreshes its TTL.
func (r *CartRepository) Save(ctx context.Context, sessionKey string, lines []domain.Line) error {
	if sessionKey == "" {
		return fmt.Errorf("sessionKey is empty")
	}

	data, err := repository.MarshalLines(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, KeyPrefix+sessionKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

func (r *CartRepository) Delete(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return fmt.Errorf("sessionKey is empty")
	}

	if err := r.client.Del(ctx, KeyPrefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
