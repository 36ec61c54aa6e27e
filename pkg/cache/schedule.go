package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

const keyPrefix = "timetable:schedule:"

// ScheduleCache stores generated weeks in Redis under the digest of their input.
type ScheduleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewScheduleCache wraps a Redis client. A zero ttl keeps entries forever.
func NewScheduleCache(client redis.Cmdable, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{client: client, ttl: ttl}
}

// Get returns the cached response for digest. A miss is (nil, false, nil).
func (s *ScheduleCache) Get(ctx context.Context, digest string) (*models.ScheduleResponse, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+digest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var resp models.ScheduleResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &resp, true, nil
}

// Set stores resp under digest.
func (s *ScheduleCache) Set(ctx context.Context, digest string, resp *models.ScheduleResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+digest, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Digest identifies a generation request: the same input under the same
// thresholds always yields the same week, so it doubles as the cache key.
func Digest(input *models.ScheduleInput, cfg scheduler.Config) string {
	payload := struct {
		Input  *models.ScheduleInput `json:"input"`
		Config scheduler.Config      `json:"config"`
	}{input, cfg}

	raw, err := json.Marshal(payload)
	if err != nil {
		// every field is a plain value; this cannot fail
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
