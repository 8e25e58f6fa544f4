package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Layout/pkg/errors"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeCacheMiss, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// DepictionCache stores finished depictions under content-derived keys.
type DepictionCache interface {
	Get(ctx context.Context, key string) (*mtypes.Depiction, error)
	Set(ctx context.Context, key string, d *mtypes.Depiction, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	// GetOrCompute returns the cached depiction for key, or runs compute once
	// per key across concurrent callers and stores its result.  The boolean
	// reports a cache hit.
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (*mtypes.Depiction, error)) (*mtypes.Depiction, bool, error)
	Purge(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Serializer encodes cached values.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type depictionCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	jitter     float64
	serializer Serializer
	group      singleflight.Group
}

type CacheOption func(*depictionCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *depictionCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *depictionCache) { c.defaultTTL = ttl }
}

// WithJitter spreads expirations by up to ±fraction of the TTL.  Zero
// disables jitter.
func WithJitter(fraction float64) CacheOption {
	return func(c *depictionCache) { c.jitter = fraction }
}

func WithSerializer(s Serializer) CacheOption {
	return func(c *depictionCache) { c.serializer = s }
}

func NewDepictionCache(client *Client, log logging.Logger, opts ...CacheOption) DepictionCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &depictionCache{
		client:     client,
		logger:     log.Named("depiction-cache"),
		prefix:     "keyip-layout:depiction:",
		defaultTTL: time.Hour,
		jitter:     0.1,
		serializer: jsonSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *depictionCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *depictionCache) ttl(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if c.jitter <= 0 || ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(float64(ttl)*c.jitter*(rand.Float64()*2-1))
}

func (c *depictionCache) Get(ctx context.Context, key string) (*mtypes.Depiction, error) {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLayoutCache, "failed to read cached depiction")
	}
	var d mtypes.Depiction
	if err := c.serializer.Unmarshal(data, &d); err != nil {
		return nil, ErrSerializationFailed.WithCause(err)
	}
	return &d, nil
}

func (c *depictionCache) Set(ctx context.Context, key string, d *mtypes.Depiction, ttl time.Duration) error {
	data, err := c.serializer.Marshal(d)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.ttl(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeLayoutCache, "failed to store depiction")
	}
	return nil
}

func (c *depictionCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *depictionCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.fullKey(key)).Result()
	return n > 0, err
}

func (c *depictionCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, c.fullKey(key)).Result()
}

func (c *depictionCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (*mtypes.Depiction, error)) (*mtypes.Depiction, bool, error) {
	d, err := c.Get(ctx, key)
	if err == nil {
		return d, true, nil
	}
	if err != ErrCacheMiss {
		// a broken cache must not block a depiction
		c.logger.Warn("depiction cache read failed", logging.String("key", key), logging.Err(err))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		fresh, cerr := compute(ctx)
		if cerr != nil {
			return nil, cerr
		}
		if serr := c.Set(ctx, key, fresh, ttl); serr != nil {
			c.logger.Warn("depiction cache write failed", logging.String("key", key), logging.Err(serr))
		}
		return fresh, nil
	})
	if err != nil {
		return nil, false, err
	}
	d, _ = v.(*mtypes.Depiction)
	return d, false, nil
}

// Purge deletes every key under the cache prefix.
func (c *depictionCache) Purge(ctx context.Context) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.prefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (c *depictionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}
