package postgres

import (
	"context"
	"fmt"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

var _ storage.Locker = (*Storage)(nil)

// Lock takes a session-level advisory lock on a dedicated connection.
// The connection returns to the pool once the lock is released.
func (s *Storage) Lock(ctx context.Context, key string) (func(), error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrLockTimeout, key, ctx.Err())
		}
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrLockTimeout, key, ctx.Err())
		}
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	return func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, key)
		_ = conn.Close()
	}, nil
}
