package presence

import (
	redis_models "Wordlink/models/redis"
	"Wordlink/services/redis"
	"log"
	"sync"
	"time"
)

// OnlineUser is one entry of the online-users snapshot pushed to clients.
type OnlineUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
}

type entry struct {
	username string
	sessions map[string]struct{}
}

// Registry is the authoritative in-memory map of currently-connected users.
// A user may hold several sessions (multiple tabs); the user only goes
// offline when the last session unregisters. All mutations and the snapshot
// used for broadcast are applied under the same lock so a torn list is
// never presented.
type Registry struct {
	mutex       sync.RWMutex
	users       map[string]*entry
	redisClient *redis.RedisClient
}

// NewRegistry creates a presence registry. redisClient may be nil; when set,
// presence entries are mirrored to Redis for the REST online-users endpoint.
func NewRegistry(redisClient *redis.RedisClient) *Registry {
	return &Registry{
		users:       make(map[string]*entry),
		redisClient: redisClient,
	}
}

// Register adds a session for the user and returns the resulting snapshot.
// Registering an already-known session is a no-op apart from refreshing the
// display name.
func (r *Registry) Register(userID, username, sessionID string) []OnlineUser {
	r.mutex.Lock()
	e, ok := r.users[userID]
	if !ok {
		e = &entry{sessions: make(map[string]struct{})}
		r.users[userID] = e
	}
	e.username = username
	e.sessions[sessionID] = struct{}{}
	snapshot := r.snapshotLocked()
	r.mutex.Unlock()

	r.mirror(userID, username)
	return snapshot
}

// Unregister drops a session for the user. The user stays online while other
// sessions remain. Returns the resulting snapshot and whether the user went
// offline.
func (r *Registry) Unregister(userID, sessionID string) ([]OnlineUser, bool) {
	r.mutex.Lock()
	wentOffline := false
	if e, ok := r.users[userID]; ok {
		delete(e.sessions, sessionID)
		if len(e.sessions) == 0 {
			delete(r.users, userID)
			wentOffline = true
		}
	}
	snapshot := r.snapshotLocked()
	r.mutex.Unlock()

	if wentOffline && r.redisClient != nil {
		if err := r.redisClient.DeletePresence(userID); err != nil {
			log.Printf("[PRESENCE-ERROR] Error deleting presence mirror for %s: %v", userID, err)
		}
	}
	return snapshot, wentOffline
}

// Snapshot returns the current list of online users.
func (r *Registry) Snapshot() []OnlineUser {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.snapshotLocked()
}

// IsOnline reports whether the user currently holds at least one session.
func (r *Registry) IsOnline(userID string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.users[userID]
	return ok
}

// SessionCount returns the number of live sessions for the user.
func (r *Registry) SessionCount(userID string) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if e, ok := r.users[userID]; ok {
		return len(e.sessions)
	}
	return 0
}

func (r *Registry) snapshotLocked() []OnlineUser {
	snapshot := make([]OnlineUser, 0, len(r.users))
	for userID, e := range r.users {
		snapshot = append(snapshot, OnlineUser{
			UserID:   userID,
			Username: e.username,
			IsOnline: true,
		})
	}
	return snapshot
}

func (r *Registry) mirror(userID, username string) {
	if r.redisClient == nil {
		return
	}
	err := r.redisClient.SavePresence(&redis_models.PresenceEntry{
		UserID:   userID,
		Username: username,
		IsOnline: true,
		LastSeen: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("[PRESENCE-ERROR] Error saving presence mirror for %s: %v", userID, err)
	}
}
