package room

import (
	"log"
	"slices"

	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/protocol"
)

// takenRanksLocked 返回已被占用的名次集合
func (r *Room) takenRanksLocked() map[int]bool {
	taken := make(map[int]bool, len(r.Ranked))
	for _, rp := range r.Ranked {
		taken[rp.Rank] = true
	}
	return taken
}

// candidateRanks 计算一个组将要拿到的名次，不做任何改动
// 胜者组从 1 往上取未占用的名次，败者组从 total 往下取
func candidateRanks(size int, winners bool, total int, taken map[int]bool) []int {
	ranks := make([]int, 0, size)
	if winners {
		next := 1
		for range size {
			for taken[next] {
				next++
			}
			ranks = append(ranks, next)
			next++
		}
	} else {
		next := total
		for range size {
			for taken[next] {
				next--
			}
			ranks = append(ranks, next)
			next--
		}
	}
	return ranks
}

// assignGroupLocked 给一个组定名次
// 组内按加入顺序领取名次，保证结果与判定顺序无关
func (r *Room) assignGroupLocked(ids []string, winners bool) []protocol.RankedPlayer {
	r.sortByJoinOrderLocked(ids)

	total := r.totalPlayers
	taken := r.takenRanksLocked()
	newly := make([]protocol.RankedPlayer, 0, len(ids))

	for _, id := range ids {
		p, exists := r.Players[id]
		if !exists {
			continue
		}

		rank := 1
		if !winners {
			rank = total
		}
		for taken[rank] {
			if winners {
				rank++
			} else {
				rank--
			}
		}

		// 不变量：名次唯一且落在 [1, 本局参赛总人数] 内
		// 走到这里被破坏只可能是编程错误，大声失败并放弃本次分配
		if rank < 1 || rank > total {
			log.Printf("❌ 房间 %s 名次分配越界: rank=%d total=%d，放弃分配", r.Code, rank, total)
			r.journal("名次分配不变量被破坏: rank=%d total=%d", rank, total)
			return newly
		}

		p.Status = StatusRanked
		entry := protocol.RankedPlayer{ID: id, Name: p.Client.GetName(), Rank: rank}
		r.Ranked = append(r.Ranked, entry)
		newly = append(newly, entry)
		taken[rank] = true

		r.journal("定名次: %s → 第 %d 名", entry.Name, rank)
	}
	return newly
}

// allocateLocked 把一轮判定结果转成名次分配
//
// 目标名次争夺规则：当某个组的候选名次包含目标名次、且组内超过一人时，
// 该组整组暂缓定名次（下一轮只在组内重赛），另一个组照常定名次。
// 两组都只有一人时不可能触发暂缓，双方同时定名次。
// 分配后只剩一名在场玩家时，该玩家直接拿最佳剩余名次。
func (r *Room) allocateLocked(outcome rule.Outcome) []protocol.RankedPlayer {
	var newly []protocol.RankedPlayer

	if len(outcome.Winners) > 0 || len(outcome.Losers) > 0 {
		total := r.totalPlayers
		taken := r.takenRanksLocked()
		winnerRanks := candidateRanks(len(outcome.Winners), true, total, taken)
		loserRanks := candidateRanks(len(outcome.Losers), false, total, taken)

		winnersContested := len(outcome.Winners) > 1 && slices.Contains(winnerRanks, r.TargetRank)
		losersContested := len(outcome.Losers) > 1 && slices.Contains(loserRanks, r.TargetRank)

		switch {
		case winnersContested:
			r.journal("目标名次(第 %d 名)落在胜者组，胜者组重赛，败者组定名次", r.TargetRank)
			newly = r.assignGroupLocked(outcome.Losers, false)
		case losersContested:
			r.journal("目标名次(第 %d 名)落在败者组，败者组重赛，胜者组定名次", r.TargetRank)
			newly = r.assignGroupLocked(outcome.Winners, true)
		default:
			newly = r.assignGroupLocked(outcome.Winners, true)
			newly = append(newly, r.assignGroupLocked(outcome.Losers, false)...)
		}
	}

	// 只剩最后一人时自动获得最佳剩余名次，目标名次争夺规则不适用
	if remaining := r.activeIDsLocked(); len(remaining) == 1 && r.totalPlayers > 1 {
		newly = append(newly, r.assignGroupLocked(remaining, true)...)
	}

	return newly
}

// sortByJoinOrderLocked 按加入顺序排序玩家 ID
func (r *Room) sortByJoinOrderLocked(ids []string) {
	index := make(map[string]int, len(r.PlayerOrder))
	for i, id := range r.PlayerOrder {
		index[id] = i
	}
	slices.SortFunc(ids, func(a, b string) int {
		return index[a] - index[b]
	})
}
