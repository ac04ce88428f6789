package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("redis: client is closed")

// IsNilError checks if the error is a "key does not exist" error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

// IsClosedError checks if the error is a "client is closed" error.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, redis.ErrClosed)
}
