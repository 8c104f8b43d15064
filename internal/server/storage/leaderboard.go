package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	winsLeaderboardKey  = "leaderboard:wins"
	gamesLeaderboardKey = "leaderboard:games"
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
}

// LeaderboardManager 排行榜管理器
// 昵称是连接级的，这里按昵称聚合，同名即同人（见设计文档，重连即新玩家）
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// RecordWin 记录一次目标名次达成
func (lm *LeaderboardManager) RecordWin(ctx context.Context, playerName string) error {
	return lm.redis.ZIncrBy(ctx, winsLeaderboardKey, 1, playerName).Err()
}

// RecordGame 记录一次参与
func (lm *LeaderboardManager) RecordGame(ctx context.Context, playerName string) error {
	return lm.redis.ZIncrBy(ctx, gamesLeaderboardKey, 1, playerName).Err()
}

// TopWinners 获取胜场排行榜前 n 名
func (lm *LeaderboardManager) TopWinners(ctx context.Context, n int64) ([]LeaderboardEntry, error) {
	zs, err := lm.redis.ZRevRangeWithScores(ctx, winsLeaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: name,
			Wins:       int(z.Score),
		})
	}
	return entries, nil
}
