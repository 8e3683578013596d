// Package locking provides the per-mechanic critical section taken around
// validate-and-write.
package locking

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// sortedUnique returns ids in byte order without duplicates. Every locker
// acquires in this order so two batches never wait on each other in a cycle.
func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// InProcessLocker serialises mechanics within one process. Waiting honours
// context cancellation.
type InProcessLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]chan struct{}
}

func NewInProcessLocker() *InProcessLocker {
	return &InProcessLocker{slots: make(map[uuid.UUID]chan struct{})}
}

func (l *InProcessLocker) slot(id uuid.UUID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[id] = ch
	}
	return ch
}

// Lock blocks until every mechanic in ids is held or ctx is done.
func (l *InProcessLocker) Lock(ctx context.Context, ids []uuid.UUID) (func(), error) {
	ordered := sortedUnique(ids)
	held := make([]chan struct{}, 0, len(ordered))

	releaseHeld := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ordered {
		ch := l.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			releaseHeld()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(releaseHeld) }, nil
}
