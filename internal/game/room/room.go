package room

import (
	"sync"
	"time"

	"github.com/palemoky/rps-arena/internal/config"
	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/storage"
	"github.com/palemoky/rps-arena/internal/types"
)

const (
	roomCodeLength = 4                                    // 房间号长度
	roomCodeChars  = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789" // 房间号字符集，去掉易混淆的 O 和 0
)

// Participant 房间中的玩家
type Participant struct {
	Client types.ClientInterface
	Choice rule.Choice
	Status ParticipantStatus
}

// Room 一场淘汰赛
// 所有字段都由 mu 保护；计时器回调和消息处理在同一把锁上串行，
// 截止 tick 之前抢到锁的出拳有效，之后的无效
type Room struct {
	Code         string
	State        State
	MaxPlayers   int
	TargetRank   int // 拿到这个名次游戏立即结束
	HostID       string
	CurrentRound int
	Players      map[string]*Participant
	PlayerOrder  []string // 按加入顺序，房主顺延用
	Ranked       []protocol.RankedPlayer
	CreatedAt    time.Time

	game      config.GameConfig
	journal   func(format string, args ...any) // 对局日志，永不阻塞
	archive   func(result *storage.GameResult) // 结果归档钩子，由管理器注入
	timer     *time.Timer                      // 当前挂起的计时器（倒计时/下一轮/跳转）
	countdown int

	// 本局参赛总人数，开局时快照
	// 名次区间 [1, totalPlayers] 以此为准，中途有人离开也不缩小
	totalPlayers int

	mu sync.Mutex
}

// AddPlayer 添加玩家，调用方需保证人数和状态检查已通过
func (r *Room) addPlayerLocked(client types.ClientInterface) {
	r.Players[client.GetID()] = &Participant{
		Client: client,
		Choice: rule.ChoiceNone,
		Status: StatusActive,
	}
	r.PlayerOrder = append(r.PlayerOrder, client.GetID())
	client.SetRoom(r.Code)
}

// RemovePlayer 移除玩家，返回房间是否因此变空
// 变空的房间由管理器销毁；否则房主离开时顺延给最早加入的玩家
func (r *Room) RemovePlayer(playerID string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.Players[playerID]
	if !exists {
		return false
	}

	delete(r.Players, playerID)
	for i, id := range r.PlayerOrder {
		if id == playerID {
			r.PlayerOrder = append(r.PlayerOrder[:i], r.PlayerOrder[i+1:]...)
			break
		}
	}
	p.Client.SetRoom("")

	r.journal("玩家离开: %s (%s)", p.Client.GetName(), playerID)

	if len(r.Players) == 0 {
		r.stopTimerLocked()
		return true
	}

	if r.HostID == playerID {
		r.HostID = r.PlayerOrder[0]
		r.journal("房主变更: %s", r.Players[r.HostID].Client.GetName())
	}

	// 开局中的离开不缩短本轮倒计时，只是缺席判定
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))
	return false
}

// HandleChoice 处理出拳
// 仅在对局进行中、玩家未定名次、本轮尚未出拳时记录；
// 重复提交、迟到提交、旁观者提交都静默忽略（幂等语义）
func (r *Room) HandleChoice(playerID, choice string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StatePlaying {
		return
	}

	p, exists := r.Players[playerID]
	if !exists || p.Status != StatusActive {
		return
	}

	if p.Choice.Chosen() {
		return // 先到先得，后续提交是空操作
	}

	c, ok := rule.ParseChoice(choice)
	if !ok {
		return
	}
	p.Choice = c

	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))
}

// HasPlayer 玩家是否在房间中
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.Players[playerID]
	return exists
}

// SendSnapshot 向单个玩家发送房间快照（状态重新同步）
func (r *Room) SendSnapshot(client types.ClientInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.SendMessage(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))
}

// BroadcastSnapshot 向房间内所有玩家广播快照
func (r *Room) BroadcastSnapshot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(protocol.MustNewMessage(protocol.MsgUpdateRoom, r.snapshotLocked()))
}

// broadcastLocked 广播消息给房间内所有玩家
// 发送失败的连接由传输层自行丢弃，绝不阻塞对局
func (r *Room) broadcastLocked(msg *protocol.Message) {
	for _, p := range r.Players {
		p.Client.SendMessage(msg)
	}
}

// activeIDsLocked 返回仍在比赛中的玩家 ID，按加入顺序
func (r *Room) activeIDsLocked() []string {
	ids := make([]string, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		if p, ok := r.Players[id]; ok && p.Status == StatusActive {
			ids = append(ids, id)
		}
	}
	return ids
}

// stopTimerLocked 取消挂起的计时器
// 房间销毁或提前离开 active 状态时调用
func (r *Room) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// scheduleLocked 调度下一个计时器回调，覆盖之前挂起的
// 每个房间同一时刻只有一个挂起的计时器
func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(d, fn)
}
