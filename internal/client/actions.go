package client

import (
	"github.com/palemoky/rps-arena/internal/protocol"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(nickname string, maxPlayers, targetRank int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Nickname:   nickname,
		MaxPlayers: maxPlayers,
		TargetRank: targetRank,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, nickname string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
		Nickname: nickname,
	}))
}

// GetRoom 请求同步房间状态
func (c *Client) GetRoom(roomCode string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGetRoom, protocol.GetRoomPayload{
		RoomCode: roomCode,
	}))
}

// StartGame 开始游戏（仅房主）
func (c *Client) StartGame(roomCode string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		RoomCode: roomCode,
	}))
}

// MakeChoice 出拳
func (c *Client) MakeChoice(roomCode, choice string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgMakeChoice, protocol.MakeChoicePayload{
		RoomCode: roomCode,
		Choice:   choice,
	}))
}

// GetLeaderboard 查询胜场排行榜
func (c *Client) GetLeaderboard(limit int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Limit: limit,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom(roomCode string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveRoom, protocol.LeaveRoomPayload{
		RoomCode: roomCode,
	}))
}
