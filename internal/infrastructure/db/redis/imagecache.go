package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ebhcs/bulletin-board/internal/imaging"
)

const imageCacheTTL = 24 * time.Hour

// ImageCache memoizes optimizer results so re-selecting the same source
// file skips the resample/re-encode loop entirely.
// Key format: imgopt:<filename>:<mtime>:<size>
type ImageCache struct {
	client *redis.Client
}

func NewImageCache(client *redis.Client) *ImageCache {
	return &ImageCache{client: client}
}

// Get returns the cached result for key, reporting whether it was found.
func (c *ImageCache) Get(ctx context.Context, key string) (*imaging.Result, bool, error) {
	raw, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("image cache get: %w", err)
	}
	var res imaging.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("image cache decode: %w", err)
	}
	return &res, true, nil
}

// Put stores an optimizer result under key with a TTL.
func (c *ImageCache) Put(ctx context.Context, key string, res *imaging.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("image cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefixed(key), raw, imageCacheTTL).Err(); err != nil {
		return fmt.Errorf("image cache put: %w", err)
	}
	return nil
}

func (c *ImageCache) prefixed(key string) string {
	return "imgopt:" + key
}
