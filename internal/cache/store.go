package cache

import (
	"context"
	"errors"
)

var ErrMiss = errors.New("cache miss")

// Store keeps encoded read results. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
	DeletePartition(ctx context.Context, p Partition) error
	Clear(ctx context.Context) error
	Close() error
}
