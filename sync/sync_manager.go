package sync

import (
	gosync "sync"
)

// SyncManager serializes mutations on a single game. Two guesses from the
// same player racing past the attempt-count guard would otherwise both pass
// the read-then-append check, so every game mutation runs under the lock
// keyed by its game id.
type SyncManager struct {
	mu    gosync.Mutex
	locks map[string]*gosync.Mutex
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager() *SyncManager {
	return &SyncManager{
		locks: make(map[string]*gosync.Mutex),
	}
}

func (sm *SyncManager) gameLock(gameID string) *gosync.Mutex {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	lock, ok := sm.locks[gameID]
	if !ok {
		lock = &gosync.Mutex{}
		sm.locks[gameID] = lock
	}
	return lock
}

// WithGameLock runs fn while holding the lock for the given game.
func (sm *SyncManager) WithGameLock(gameID string, fn func() error) error {
	lock := sm.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// ReleaseGame drops the lock entry for a finished game so the map doesn't
// grow without bound. Callers must not hold the game's lock when evicting
// it: a waiter blocked on the evicted mutex and a later caller minting a
// fresh one would no longer exclude each other.
func (sm *SyncManager) ReleaseGame(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.locks, gameID)
}
