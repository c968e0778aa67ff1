// Package staging holds analysis results between preview and finalize.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mathieu/apply-pilot/internal/types"
)

// DefaultTTL is how long a previewed analysis stays redeemable. Past it the
// user re-runs analyze; finalizing against an expired record is a not-found,
// never a silent re-analysis.
const DefaultTTL = time.Hour

// recordKeyPrefix namespaces staging keys away from the page cache.
const recordKeyPrefix = "staging:"

// Record holds everything finalize needs to turn a previewed analysis into
// a stored application.
type Record struct {
	ID        string             `json:"id"`
	Posting   *types.JobPosting  `json:"posting"`
	Match     *types.MatchResult `json:"match"`
	CV        *types.CVDraft     `json:"cv"`
	Cover     *types.CoverDraft  `json:"cover"`
	LogoURL   string             `json:"logo_url,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Store keeps staging records for a bounded time. Get returns nil for a
// missing or expired record; the caller decides what not-found means.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore implements Store on a Redis client, leaning on Redis TTLs for
// expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a staging store backed by the given Redis client.
// A zero ttl means DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores the record under its application ID.
func (s *RedisStore) Put(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode staging record: %w", err)
	}
	if err := s.client.Set(ctx, recordKeyPrefix+rec.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write staging record: %w", err)
	}
	return nil
}

// Get returns the staged record for id, or nil once it has expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staging record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode staging record: %w", err)
	}
	return &rec, nil
}

// Delete removes the staged record for id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, recordKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete staging record: %w", err)
	}
	return nil
}
