package handler

import (
	"github.com/palemoky/rps-arena/internal/apperrors"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/types"
)

// handleStartGame 处理开始游戏（仅房主）
func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.manager.GetRoom(payload.RoomCode)
	if r == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeRoomNotFound))
		return
	}
	if !r.HasPlayer(client.GetID()) {
		sendGameError(client, apperrors.ErrNotInRoom)
		return
	}

	if err := r.StartGame(client.GetID()); err != nil {
		sendGameError(client, err)
	}
}

// handleMakeChoice 处理出拳
// 迟到/重复/无效的提交在房间引擎里静默忽略，这里不回错误
func (h *Handler) handleMakeChoice(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.MakeChoicePayload](msg)
	if err != nil {
		return
	}

	r := h.manager.GetRoom(payload.RoomCode)
	if r == nil {
		return
	}
	r.HandleChoice(client.GetID(), payload.Choice)
}
