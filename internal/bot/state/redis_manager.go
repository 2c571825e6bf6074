package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

const redisTimeout = 3 * time.Second

// RedisManager manages user states using Redis
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager shares an existing client, usually the one behind the
// redis storage driver.
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func stateKey(userID int64) string { return fmt.Sprintf("fitscan_bot:%d:state", userID) }

func tempKey(userID int64) string { return fmt.Sprintf("fitscan_bot:%d:temp", userID) }

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	var err error
	if state == None {
		err = m.client.Del(ctx, stateKey(userID)).Err()
	} else {
		err = m.client.Set(ctx, stateKey(userID), state, TTL).Err()
	}
	if err != nil {
		logger.Warn("Failed to store conversation state", "user_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	result, err := m.client.Get(ctx, stateKey(userID)).Result()
	if err == redis.Nil {
		return None
	}
	if err != nil {
		logger.Warn("Failed to read conversation state", "user_id", userID, "error", err)
		return None
	}
	return result
}

// SetTempData stores one field of the user's temp hash and refreshes its TTL.
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Failed to store temp data", "user_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	value, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read temp data", "user_id", userID, "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	m.client.Del(ctx, tempKey(userID))
}

// ClearUser drops both state and temp data.
func (m *RedisManager) ClearUser(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	m.client.Del(ctx, stateKey(userID), tempKey(userID))
}
