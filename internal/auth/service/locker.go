package service

import (
	"context"
	"sync"
)

// PrincipalLocker serializes mutations of the same principal. Entries are reference
// counted and dropped when the last holder unlocks, so idle principals cost nothing.
type PrincipalLocker struct {
	mu    sync.Mutex
	locks map[string]*principalLock
}

type principalLock struct {
	mu   sync.Mutex
	refs int
}

// NewPrincipalLocker creates an empty PrincipalLocker.
func NewPrincipalLocker() *PrincipalLocker {
	return &PrincipalLocker{locks: make(map[string]*principalLock)}
}

// Lock blocks until principalID is free and returns the matching unlock function.
func (l *PrincipalLocker) Lock(principalID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[principalID]
	if !ok {
		entry = &principalLock{}
		l.locks[principalID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, principalID)
		}
		l.mu.Unlock()
	}
}

type heldLocksKey struct{}

// heldLock is one link of the chain of principals locked by a call stack.
type heldLock struct {
	principalID string
	parent      *heldLock
}

func (h *heldLock) holds(principalID string) bool {
	for link := h; link != nil; link = link.parent {
		if link.principalID == principalID {
			return true
		}
	}
	return false
}

// LockContext is Lock for call chains that may already hold principalID. Ownership is
// recorded in the returned context; a nested LockContext on the same principal with that
// context returns immediately and its unlock is a no-op.
func (l *PrincipalLocker) LockContext(ctx context.Context, principalID string) (context.Context, func()) {
	held, _ := ctx.Value(heldLocksKey{}).(*heldLock)
	if held.holds(principalID) {
		return ctx, func() {}
	}

	unlock := l.Lock(principalID)
	return context.WithValue(ctx, heldLocksKey{}, &heldLock{principalID: principalID, parent: held}), unlock
}

// size returns the number of tracked principals.
func (l *PrincipalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
