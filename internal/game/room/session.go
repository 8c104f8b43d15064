package room

import (
	"slices"
	"strings"
	"time"

	"github.com/palemoky/rps-arena/internal/apperrors"
	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/storage"
)

// StartGame 开始游戏（仅房主，至少 2 人）
// waiting 和 finished 状态都可以开始，finished 即房主重开一局
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()

	if r.State == StatePlaying {
		r.mu.Unlock()
		return apperrors.ErrGameStarted
	}
	if playerID != r.HostID {
		r.mu.Unlock()
		return apperrors.ErrNotHost
	}
	if len(r.Players) < 2 {
		r.mu.Unlock()
		return apperrors.ErrNotEnoughPlayers
	}

	r.stopTimerLocked() // finished 状态可能还挂着跳转计时器
	r.State = StatePlaying
	r.CurrentRound = 0
	r.Ranked = nil
	r.totalPlayers = len(r.Players)
	for _, p := range r.Players {
		p.Status = StatusActive
		p.Choice = rule.ChoiceNone
	}

	names := make([]string, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		names = append(names, r.Players[id].Client.GetName())
	}
	r.journal("游戏开始! 参赛者: %s", strings.Join(names, ", "))
	r.mu.Unlock()

	r.startRound()
	return nil
}

// startRound 开启新一轮：清空出拳、广播轮次和倒计时、调度 tick
func (r *Room) startRound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StatePlaying {
		return
	}

	r.CurrentRound++
	for _, p := range r.Players {
		if p.Status == StatusActive {
			p.Choice = rule.ChoiceNone
		}
	}

	active := r.activeIDsLocked()
	names := make([]string, 0, len(active))
	for _, id := range active {
		names = append(names, r.Players[id].Client.GetName())
	}
	r.journal("=== 第 %d 轮开始 === 参赛者 (%d 人): %s", r.CurrentRound, len(names), strings.Join(names, ", "))

	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgNewRound, protocol.NewRoundPayload{Round: r.CurrentRound}))
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))

	r.countdown = r.game.ChoiceWindow
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgTimer, protocol.TimerPayload{SecondsLeft: r.countdown}))
	r.scheduleLocked(time.Second, r.tick)
}

// tick 每秒一跳的倒计时
// 截止跳（归零）在同一把锁内直接进入结算，保证出拳与截止的先后
// 完全由锁的获取顺序决定，与墙钟无关
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StatePlaying {
		return
	}

	r.countdown--
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgTimer, protocol.TimerPayload{SecondsLeft: r.countdown}))

	if r.countdown > 0 {
		r.scheduleLocked(time.Second, r.tick)
		return
	}

	r.resolveRoundLocked()
}

// resolveRoundLocked 结算一轮：判定 → 定名次 → 广播 → 推进或终局
func (r *Room) resolveRoundLocked() {
	active := r.activeIDsLocked()

	choices := make(map[string]rule.Choice, len(active))
	for _, id := range active {
		choices[id] = r.Players[id].Choice
	}

	outcome := rule.Resolve(choices)
	newly := r.allocateLocked(outcome)

	if outcome.Draw && len(newly) == 0 {
		r.journal("第 %d 轮结果: 平局重赛", r.CurrentRound)
	}

	rankedThisRound := make(map[string]bool, len(newly))
	for _, rp := range newly {
		rankedThisRound[rp.ID] = true
	}

	// 本轮达成目标名次的玩家（经名次分配产生）
	var achieved *protocol.RankedPlayer
	for i := range newly {
		if newly[i].Rank == r.TargetRank {
			achieved = &newly[i]
			break
		}
	}

	// 轮次上限强制结算：在场者共享第一名，防止无限重赛
	var finalWinners []protocol.RankedPlayer
	if r.CurrentRound >= r.game.MaxRounds {
		for _, id := range r.activeIDsLocked() {
			p := r.Players[id]
			p.Status = StatusRanked
			entry := protocol.RankedPlayer{ID: id, Name: p.Client.GetName(), Rank: 1}
			r.Ranked = append(r.Ranked, entry)
			finalWinners = append(finalWinners, entry)
			rankedThisRound[id] = true
		}
		if len(finalWinners) > 0 {
			r.journal("达到轮次上限(%d)，%d 名在场玩家共享第一名", r.game.MaxRounds, len(finalWinners))
		}
	}

	gameOver := len(r.activeIDsLocked()) == 0 || achieved != nil

	results := make([]protocol.RoundPlayerResult, 0, len(active))
	for _, id := range active {
		p, exists := r.Players[id]
		if !exists {
			continue
		}
		results = append(results, protocol.RoundPlayerResult{
			Name:       p.Client.GetName(),
			Choice:     p.Choice.String(),
			Eliminated: rankedThisRound[id],
		})
	}

	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgRoundResult, protocol.RoundResultPayload{
		Round:          r.CurrentRound,
		GameOver:       gameOver,
		Players:        results,
		AchievedTarget: achieved,
		FinalWinners:   finalWinners,
	}))
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))

	if !gameOver {
		r.scheduleLocked(r.game.RoundDelayDuration(), r.startRound)
		return
	}

	r.finishLocked(achieved)
}

// finishLocked 终局：落日志、归档、延迟跳转
func (r *Room) finishLocked(achieved *protocol.RankedPlayer) {
	r.State = StateFinished

	r.journal("=== 游戏结束 ===")
	standings := append([]protocol.RankedPlayer(nil), r.Ranked...)
	for _, rp := range sortedByRank(standings) {
		mark := ""
		if rp.Rank == r.TargetRank {
			mark = " ⭐ 当选!"
		}
		r.journal("  第 %d 名: %s%s", rp.Rank, rp.Name, mark)
	}
	if achieved != nil {
		r.journal("🎉 目标名次达成! %s 拿下第 %d 名", achieved.Name, achieved.Rank)
	}

	if r.archive != nil {
		result := &storage.GameResult{
			RoomCode:   r.Code,
			TargetRank: r.TargetRank,
			Rounds:     r.CurrentRound,
			FinishedAt: time.Now().Unix(),
		}
		for _, rp := range standings {
			result.Standings = append(result.Standings, storage.StandingData{
				PlayerID:   rp.ID,
				PlayerName: rp.Name,
				Rank:       rp.Rank,
			})
		}
		if achieved != nil {
			result.Winner = &storage.StandingData{
				PlayerID:   achieved.ID,
				PlayerName: achieved.Name,
				Rank:       achieved.Rank,
			}
		}
		// 归档不阻塞对局，失败只打日志
		go r.archive(result)
	}

	r.scheduleLocked(r.game.RedirectDelayDuration(), r.broadcastRedirect)
}

// broadcastRedirect 终局延迟后通知客户端跳转
func (r *Room) broadcastRedirect() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StateFinished {
		return // 房主已重开
	}
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgGameOverRedirect, nil))
}

// sortedByRank 按名次升序返回副本
func sortedByRank(ranked []protocol.RankedPlayer) []protocol.RankedPlayer {
	out := append([]protocol.RankedPlayer(nil), ranked...)
	slices.SortFunc(out, func(a, b protocol.RankedPlayer) int {
		return a.Rank - b.Rank
	})
	return out
}
