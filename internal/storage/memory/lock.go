package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Locker is an in-process keyed mutex
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocker creates an empty Locker
func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

var _ storage.Locker = (*Locker)(nil)

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(key, s)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, s)
		return nil, fmt.Errorf("%w: %s: %w", model.ErrLockTimeout, key, ctx.Err())
	}
}

func (l *Locker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
