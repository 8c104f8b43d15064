package room

import (
	"github.com/palemoky/rps-arena/internal/protocol"
)

// snapshotLocked 生成房间快照
// 快照只暴露"是否已出拳"，具体出了什么要等 round_result 公布
func (r *Room) snapshotLocked() protocol.RoomSnapshot {
	snap := protocol.RoomSnapshot{
		RoomCode:     r.Code,
		State:        r.State.String(),
		HostID:       r.HostID,
		MaxPlayers:   r.MaxPlayers,
		TargetRank:   r.TargetRank,
		CurrentRound: r.CurrentRound,
		Players:      make([]protocol.PlayerInfo, 0, len(r.Players)),
		Ranked:       append([]protocol.RankedPlayer(nil), r.Ranked...),
	}

	for _, id := range r.PlayerOrder {
		p, exists := r.Players[id]
		if !exists {
			continue
		}
		snap.Players = append(snap.Players, protocol.PlayerInfo{
			ID:        id,
			Name:      p.Client.GetName(),
			Status:    p.Status.String(),
			HasChosen: p.Choice.Chosen(),
		})
	}
	return snap
}

// Snapshot 加锁版快照，给需要只读视图的调用方
func (r *Room) Snapshot() protocol.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}
