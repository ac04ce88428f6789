package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

var _ snapshot.Store = (*RedisClient)(nil)

func (r *RedisClient) key(key string) string {
	return r.cfg.KeyPrefix + key
}

// Load returns the snapshot stored under key, or snapshot.ErrNotFound.
func (r *RedisClient) Load(ctx context.Context, key string) (data []byte, err error) {
	start := time.Now()
	full := r.key(key)
	defer func() {
		r.observeOperation("get", full, "", time.Since(start), err, int64(len(data)), nil)
	}()

	c, err := r.get()
	if err != nil {
		return nil, err
	}
	data, err = c.Get(ctx, full).Bytes()
	if IsNilError(err) {
		return nil, fmt.Errorf("%w: %s", snapshot.ErrNotFound, full)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", full, err)
	}
	return data, nil
}

// Save replaces the snapshot stored under key, applying Config.TTL.
func (r *RedisClient) Save(ctx context.Context, key string, data []byte) (err error) {
	start := time.Now()
	full := r.key(key)
	defer func() {
		r.observeOperation("set", full, "", time.Since(start), err, int64(len(data)),
			map[string]interface{}{"ttl": r.cfg.TTL.String()})
	}()

	c, err := r.get()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, full, data, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", full, err)
	}
	return nil
}

// Delete removes the snapshot stored under key.
func (r *RedisClient) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	full := r.key(key)
	defer func() {
		r.observeOperation("del", full, "", time.Since(start), err, 0, nil)
	}()

	c, err := r.get()
	if err != nil {
		return err
	}
	if err := c.Del(ctx, full).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", full, err)
	}
	return nil
}
