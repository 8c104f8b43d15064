package apperrors

import (
	"github.com/palemoky/rps-arena/internal/protocol"
)

// GameError 游戏错误（房间和回合共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// New 创建游戏错误
func New(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 用户可见的拒绝类错误，通过 error_message 发给出错的连接
var (
	ErrRoomNotFound     = New(protocol.ErrCodeRoomNotFound)
	ErrRoomFull         = New(protocol.ErrCodeRoomFull)
	ErrGameStarted      = New(protocol.ErrCodeGameStarted)
	ErrNotInRoom        = New(protocol.ErrCodeNotInRoom)
	ErrNotHost          = New(protocol.ErrCodeNotHost)
	ErrNotEnoughPlayers = New(protocol.ErrCodeNotEnoughPlayers)
)
