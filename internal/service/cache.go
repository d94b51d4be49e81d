package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

const recognitionCacheTTL = time.Hour

// RecognitionCache keeps recent recognition results in Redis keyed by
// the image content hash, so re-submitting the same photo never
// double-bills the vision quota. A nil Redis client disables caching.
type RecognitionCache struct {
	redis *redis.Client
}

// NewRecognitionCache creates a new RecognitionCache instance
func NewRecognitionCache(redisClient *redis.Client) *RecognitionCache {
	return &RecognitionCache{redis: redisClient}
}

func recognitionKey(imageData []byte) string {
	return fmt.Sprintf("recognition:%x", sha256.Sum256(imageData))
}

// Get returns the cached result for the image bytes, or nil on a miss.
// Cache failures are treated as misses, never as request failures.
func (c *RecognitionCache) Get(ctx context.Context, imageData []byte) *model.RecognitionResult {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := c.redis.Get(ctx, recognitionKey(imageData)).Bytes()
	if err != nil {
		return nil
	}

	var result model.RecognitionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// Set stores a recognition result with a bounded TTL.
func (c *RecognitionCache) Set(ctx context.Context, imageData []byte, result *model.RecognitionResult) error {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal recognition result: %w", err)
	}

	if err := c.redis.Set(ctx, recognitionKey(imageData), data, recognitionCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache recognition result: %w", err)
	}
	return nil
}
