package handler

import (
	"strings"

	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SetName(strings.TrimSpace(payload.Nickname))

	// 已在房间中就先离开
	if client.GetRoom() != "" {
		h.manager.LeaveRoom(client)
	}

	r := h.manager.CreateRoom(client, payload.MaxPlayers, payload.TargetRank)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
	}))
	r.BroadcastSnapshot()
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SetName(strings.TrimSpace(payload.Nickname))

	// 已在房间中就先离开
	if client.GetRoom() != "" {
		h.manager.LeaveRoom(client)
	}

	r, err := h.manager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		sendGameError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgJoinedRoom, protocol.JoinedRoomPayload{
		RoomCode: r.Code,
	}))
	r.BroadcastSnapshot()
}

// handleGetRoom 处理房间状态同步请求
// 只有房间成员能拿到快照，其他情况静默忽略
func (h *Handler) handleGetRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetRoomPayload](msg)
	if err != nil {
		return
	}

	r := h.manager.GetRoom(payload.RoomCode)
	if r == nil || !r.HasPlayer(client.GetID()) {
		return
	}
	r.SendSnapshot(client)
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.manager.LeaveRoom(client)
}
