package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistanceCacheInterface abstracts the distance cache for testing.
type DistanceCacheInterface interface {
	GetDistance(ctx context.Context, origin, destination string) (float64, bool, error)
	SetDistance(ctx context.Context, origin, destination string, miles float64) error
}

// DistanceCache caches resolved driving distances in Redis so repeated
// quotes for the same route do not re-hit the distance provider.
type DistanceCache struct {
	client *redis.Client
}

// NewDistanceCache creates a new DistanceCache.
func NewDistanceCache(client *redis.Client) *DistanceCache {
	return &DistanceCache{client: client}
}

// DistanceCacheTTL bounds staleness of cached route distances. Routes don't
// change often; an hour keeps quote latency low without pinning bad data.
const DistanceCacheTTL = 1 * time.Hour

const distanceCachePrefix = "cache:distance:"

type cachedDistance struct {
	Miles float64 `json:"miles"`
}

// GetDistance retrieves a cached distance. The second return value reports
// whether the route was present.
func (s *DistanceCache) GetDistance(ctx context.Context, origin, destination string) (float64, bool, error) {
	data, err := s.client.Get(ctx, distanceKey(origin, destination)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil // Cache miss
		}
		return 0, false, err
	}

	var cached cachedDistance
	if err := json.Unmarshal(data, &cached); err != nil {
		return 0, false, err
	}
	return cached.Miles, true, nil
}

// SetDistance stores a resolved distance.
func (s *DistanceCache) SetDistance(ctx context.Context, origin, destination string, miles float64) error {
	data, err := json.Marshal(cachedDistance{Miles: miles})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, distanceKey(origin, destination), data, DistanceCacheTTL).Err()
}

// distanceKey hashes the route so free-text addresses stay within key
// length limits and case/whitespace variants collapse to one entry.
func distanceKey(origin, destination string) string {
	route := strings.ToLower(strings.TrimSpace(origin)) + "|" + strings.ToLower(strings.TrimSpace(destination))
	sum := sha256.Sum256([]byte(route))
	return distanceCachePrefix + hex.EncodeToString(sum[:])
}
