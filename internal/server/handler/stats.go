package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// handleGetLeaderboard 处理排行榜查询
// 排行榜不可用时（未接 Redis）返回空榜单而不是报错
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	limit := payload.Limit
	if limit <= 0 || limit > maxLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	entries := make([]protocol.LeaderboardEntry, 0, limit)
	if h.boards != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		top, err := h.boards.TopWinners(ctx, int64(limit))
		if err != nil {
			log.Printf("排行榜查询失败: %v", err)
			client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeUnknown))
			return
		}
		for _, e := range top {
			entries = append(entries, protocol.LeaderboardEntry{
				Rank:       e.Rank,
				PlayerName: e.PlayerName,
				Wins:       e.Wins,
			})
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboard, protocol.LeaderboardPayload{
		Entries: entries,
	}))
}
