package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Delete(ctx context.Context, keys ...string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	SetRaw(ctx context.Context, key string, value []byte, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Increment(ctx context.Context, key string) (int64, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	// CompareAndSwap runs check against the current raw value of key under an
	// optimistic lock and, if check passes, replaces the value. It returns false
	// when check rejects the value or a concurrent writer changed the key.
	CompareAndSwap(ctx context.Context, key string, check func(current string) bool, value []byte, exp time.Duration) (bool, error)
	Expire(ctx context.Context, key string, exp time.Duration) (bool, error)
}
