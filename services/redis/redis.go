package redis

import (
	redis_models "Wordlink/models/redis"
	redis_utils "Wordlink/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SavePresence stores a user's presence entry in Redis and adds the user
// to the online set. Key format: "presence:{userId}"
// TTL: 24 hours
func (rc *RedisClient) SavePresence(entry *redis_models.PresenceEntry) error {
	key := redis_utils.FormatPresenceKey(entry.UserID)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshaling presence entry: %v", err)
	}

	if err := rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err(); err != nil {
		return err
	}
	return rc.client.SAdd(rc.ctx, redis_utils.FormatOnlineSetKey(), entry.UserID).Err()
}

// GetPresence retrieves a user's presence entry from Redis
// Key format: "presence:{userId}"
func (rc *RedisClient) GetPresence(userID string) (*redis_models.PresenceEntry, error) {
	key := redis_utils.FormatPresenceKey(userID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting presence entry: %v", err)
	}

	var entry redis_models.PresenceEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("error unmarshaling presence entry: %v", err)
	}
	return &entry, nil
}

// DeletePresence removes a user's presence entry and drops the user from
// the online set
func (rc *RedisClient) DeletePresence(userID string) error {
	key := redis_utils.FormatPresenceKey(userID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return err
	}
	return rc.client.SRem(rc.ctx, redis_utils.FormatOnlineSetKey(), userID).Err()
}

// GetOnlineUsers returns the presence entries of all users in the online set.
// Entries whose key expired are skipped and lazily removed from the set.
func (rc *RedisClient) GetOnlineUsers() ([]*redis_models.PresenceEntry, error) {
	userIDs, err := rc.client.SMembers(rc.ctx, redis_utils.FormatOnlineSetKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading online set: %v", err)
	}

	entries := make([]*redis_models.PresenceEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		entry, err := rc.GetPresence(userID)
		if err != nil {
			rc.client.SRem(rc.ctx, redis_utils.FormatOnlineSetKey(), userID)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
