package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
)

// DefaultMovementHistoryLimit caps how many line-movement observations are
// retained per leg.
const DefaultMovementHistoryLimit = 10

type CacheService struct {
	client        *redis.Client
	movementLimit int64
}

func NewCacheService(client *redis.Client, movementLimit int) *CacheService {
	if movementLimit <= 0 {
		movementLimit = DefaultMovementHistoryLimit
	}
	return &CacheService{
		client:        client,
		movementLimit: int64(movementLimit),
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}
	return val > 0, nil
}

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = fmt.Errorf("cache miss")

// Cache key generators
func QuotesCacheKey(sport, eventID string) string {
	return fmt.Sprintf("quotes:%s:%s", sport, eventID)
}

func EventsCacheKey(sport string) string {
	return fmt.Sprintf("events:%s", sport)
}

func MovementHistoryKey(legID string) string {
	return fmt.Sprintf("movement:%s", legID)
}

// PushMovement prepends one observation to a leg's movement history and trims
// the list to the retention limit, newest first.
func (s *CacheService) PushMovement(ctx context.Context, movement parlay.LineMovement) error {
	data, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("failed to marshal movement: %w", err)
	}

	key := MovementHistoryKey(movement.LegID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, s.movementLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record movement: %w", err)
	}

	return nil
}

// MovementHistory returns a leg's retained observations, newest first.
func (s *CacheService) MovementHistory(ctx context.Context, legID string) ([]parlay.LineMovement, error) {
	raw, err := s.client.LRange(ctx, MovementHistoryKey(legID), 0, s.movementLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read movement history: %w", err)
	}

	movements := make([]parlay.LineMovement, 0, len(raw))
	for _, item := range raw {
		var m parlay.LineMovement
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			logrus.Warnf("Skipping corrupt movement entry for leg %s: %v", legID, err)
			continue
		}
		movements = append(movements, m)
	}

	return movements, nil
}

// Cache with retry logic
func (s *CacheService) SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
		logrus.Warnf("Cache set failed (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Millisecond * 100 * time.Duration(i+1))
	}
	return err
}

// Flush clears all cache entries
func (s *CacheService) Flush() error {
	return s.client.FlushDB(context.Background()).Err()
}
