// Package cache keeps a short rolling window of conversation turns in Redis
// so context analysis does not have to hit Postgres on every message. The
// cache is optional; a nil client degrades to database reads.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"safetychat/internal/models"
)

// turnTTL bounds how long a stale session window lingers after the last turn.
const turnTTL = 24 * time.Hour

type RedisClient struct {
	client *redis.Client
	window int
}

// NewRedisClient creates a new Redis client. The window is how many recent
// turns are retained per session.
func NewRedisClient(addr, password string, db, window int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, window: window}, nil
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}

func turnKey(sessionID string) string {
	return fmt.Sprintf("turns:session:%s", sessionID)
}

// PushTurn appends a turn to the session window, trimming to the configured
// size. Safe to call on a nil client.
func (r *RedisClient) PushTurn(ctx context.Context, sessionID string, turn models.ConversationTurn) error {
	if r == nil {
		return nil
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := turnKey(sessionID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(r.window-1))
	pipe.Expire(ctx, key, turnTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentTurns returns the cached window in chronological order. A nil client
// or an empty window returns (nil, nil) so callers fall through to the
// database.
func (r *RedisClient) RecentTurns(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	if r == nil {
		return nil, nil
	}

	entries, err := r.client.LRange(ctx, turnKey(sessionID), 0, int64(r.window-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// LPUSH stores newest first.
	turns := make([]models.ConversationTurn, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(entries[i]), &turn); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
