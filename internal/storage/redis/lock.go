package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/swisspairing/internal/dependencies/random"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

const (
	tokenLength   = 24
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-instance Redis lock built on SET NX PX
type Locker struct {
	client *redis.Client
	random random.Random
	ttl    time.Duration
	retry  time.Duration
}

// NewLocker creates a Locker on an existing client
func NewLocker(client *redis.Client, rnd random.Random, cfg Config) *Locker {
	return &Locker{
		client: client,
		random: rnd,
		ttl:    cfg.LockTTL,
		retry:  cfg.LockRetryInterval,
	}
}

var _ storage.Locker = (*Locker)(nil)

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	k := lockKey(key)
	token := l.random.String(tokenLength, tokenAlphabet)

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", model.ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				// The caller's ctx may already be done; release must still run
				_ = releaseScript.Run(context.Background(), l.client, []string{k}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", model.ErrLockTimeout, key, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}
