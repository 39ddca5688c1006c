// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. It is nil until ConnectRedis succeeds, in
// which case action logging is skipped.
var Rdb *redis.Client

// ActionQueueKey is the Redis list the action historian consumes.
const ActionQueueKey = "guinote:game_actions"

// ErrNotConnected is returned when Rdb has not been initialized.
var ErrNotConnected = errors.New("cache: redis not connected")

// GameActionRecord is one entry of a game's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // uuid.Nil for game events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// ConnectRedis dials addr and verifies the connection before publishing it as Rdb.
func ConnectRedis(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Close releases the shared client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// PublishGameAction appends rec to the historian queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	data, err := encodeActionRecord(rec)
	if err != nil {
		return err
	}
	if err := Rdb.RPush(ctx, ActionQueueKey, data).Err(); err != nil {
		return fmt.Errorf("cache: push action %d: %w", rec.ActionIndex, err)
	}
	return nil
}

func encodeActionRecord(rec GameActionRecord) ([]byte, error) {
	if rec.ActionPayload == nil {
		rec.ActionPayload = map[string]interface{}{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("cache: encode action %d: %w", rec.ActionIndex, err)
	}
	return data, nil
}
