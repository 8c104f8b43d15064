package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	resultKeyPrefix = "result:"

	// 对局结果过期时间
	resultExpiration = 7 * 24 * time.Hour
)

// StandingData 最终名次中的一条
type StandingData struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
}

// GameResult 一局游戏的归档数据
type GameResult struct {
	RoomCode   string         `json:"room_code"`
	TargetRank int            `json:"target_rank"`
	Rounds     int            `json:"rounds"`
	FinishedAt int64          `json:"finished_at"`
	Standings  []StandingData `json:"standings"`
	Winner     *StandingData  `json:"winner,omitempty"` // 拿到目标名次的玩家
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveResult 归档一局结果
func (rs *RedisStore) SaveResult(ctx context.Context, result *GameResult) error {
	if result == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化对局结果失败: %w", err)
	}

	key := fmt.Sprintf("%s%s:%d", resultKeyPrefix, result.RoomCode, result.FinishedAt)
	return rs.client.Set(ctx, key, data, resultExpiration).Err()
}

// LoadResults 加载某个房间号的全部归档结果
// 房间号会被复用，同一个号可能对应多局
func (rs *RedisStore) LoadResults(ctx context.Context, roomCode string) ([]*GameResult, error) {
	keys, err := rs.client.Keys(ctx, resultKeyPrefix+roomCode+":*").Result()
	if err != nil {
		return nil, err
	}

	results := make([]*GameResult, 0, len(keys))
	for _, key := range keys {
		data, err := rs.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // 过期了就跳过
			}
			return nil, err
		}

		var result GameResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("反序列化对局结果失败: %w", err)
		}
		results = append(results, &result)
	}
	return results, nil
}
