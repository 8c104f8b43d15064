package handler

import (
	"errors"
	"log"

	"github.com/palemoky/rps-arena/internal/apperrors"
	"github.com/palemoky/rps-arena/internal/game/room"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/storage"
	"github.com/palemoky/rps-arena/internal/types"
)

// Handler 消息处理器
type Handler struct {
	manager *room.Manager
	boards  *storage.LeaderboardManager
}

// NewHandler 创建处理器
// boards 允许为 nil，排行榜查询会降级为空榜单
func NewHandler(manager *room.Manager, boards *storage.LeaderboardManager) *Handler {
	return &Handler{manager: manager, boards: boards}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	// 房间操作
	case protocol.MsgCreateRoom:
		h.handleCreateRoom(client, msg)
	case protocol.MsgJoinRoom:
		h.handleJoinRoom(client, msg)
	case protocol.MsgGetRoom:
		h.handleGetRoom(client, msg)
	case protocol.MsgLeaveRoom:
		h.handleLeaveRoom(client)

	// 对局操作
	case protocol.MsgStartGame:
		h.handleStartGame(client, msg)
	case protocol.MsgMakeChoice:
		h.handleMakeChoice(client, msg)

	// 统计查询
	case protocol.MsgGetLeaderboard:
		h.handleGetLeaderboard(client, msg)

	default:
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendGameError 把 GameError 发给出错的连接
func sendGameError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
