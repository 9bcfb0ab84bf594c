package repository

import (
	"errors"
	"fmt"
)

var (
	ErrRedisConnection   = errors.New("redis connection error")
	ErrInvalidQueueData  = errors.New("invalid queue data")
	ErrInvalidBundleData = errors.New("invalid bundle data")
)

// wrapRedis tags transport failures so callers can tell a broken
// connection apart from corrupt data.
func wrapRedis(err error) error {
	return fmt.Errorf("%w: %v", ErrRedisConnection, err)
}
