package redis

// PresenceEntry mirrors one online user into Redis so the REST API can
// serve the online-user list without reaching into the gateway process.
type PresenceEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
	LastSeen int64  `json:"last_seen"` // Unix timestamp
}
