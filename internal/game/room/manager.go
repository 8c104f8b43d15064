package room

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/rps-arena/internal/apperrors"
	"github.com/palemoky/rps-arena/internal/config"
	"github.com/palemoky/rps-arena/internal/logger"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/storage"
	"github.com/palemoky/rps-arena/internal/types"
)

// Manager 房间管理器
// 持有全部在线房间，负责创建、查找、销毁和连接事件路由
type Manager struct {
	cfg     *config.Config
	store   *storage.RedisStore
	boards  *storage.LeaderboardManager
	gamelog *logger.GameLog
	rooms   map[string]*Room
	mu      sync.RWMutex
}

// NewManager 创建房间管理器
// store/boards/gamelog 允许为 nil（测试场景），对应功能降级为空操作
func NewManager(cfg *config.Config, store *storage.RedisStore, boards *storage.LeaderboardManager, gamelog *logger.GameLog) *Manager {
	m := &Manager{
		cfg:     cfg,
		store:   store,
		boards:  boards,
		gamelog: gamelog,
		rooms:   make(map[string]*Room),
	}

	// 启动房间清理协程
	go m.cleanupLoop()

	return m
}

// CreateRoom 创建房间，创建者即房主
// 人数上限收敛到 [2, 配置上限]，目标名次收敛到 [1, 人数上限]
func (m *Manager) CreateRoom(client types.ClientInterface, maxPlayers, targetRank int) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxPlayers = min(max(maxPlayers, 2), m.cfg.Game.MaxPlayersLimit)
	targetRank = min(max(targetRank, 1), maxPlayers)

	code := m.generateRoomCode()
	r := &Room{
		Code:       code,
		State:      StateWaiting,
		MaxPlayers: maxPlayers,
		TargetRank: targetRank,
		HostID:     client.GetID(),
		Players:    make(map[string]*Participant),
		CreatedAt:  time.Now(),
		game:       m.cfg.Game,
		journal: func(format string, args ...any) {
			m.gamelog.Event(code, format, args...)
		},
		archive: m.archiveResult,
	}
	r.addPlayerLocked(client)
	m.rooms[code] = r

	log.Printf("🏠 房间 %s 已创建，房主 %s (上限 %d 人, 目标第 %d 名)", code, client.GetName(), maxPlayers, targetRank)
	r.journal("=== 房间创建 ===")
	r.journal("房间号: %s, 人数上限: %d, 目标名次: 第 %d 名", code, maxPlayers, targetRank)
	r.journal("房主: %s (%s)", client.GetName(), client.GetID())

	return r
}

// JoinRoom 加入房间
// 只允许加入等待中且未满的房间
func (m *Manager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	m.mu.RLock()
	r, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	if len(r.Players) >= r.MaxPlayers {
		r.mu.Unlock()
		return nil, apperrors.ErrRoomFull
	}
	if r.State != StateWaiting {
		r.mu.Unlock()
		return nil, apperrors.ErrGameStarted
	}

	r.addPlayerLocked(client)
	r.journal("玩家加入: %s (%s)", client.GetName(), client.GetID())
	r.mu.Unlock()

	log.Printf("👤 玩家 %s 加入房间 %s", client.GetName(), code)
	return r, nil
}

// LeaveRoom 处理离开/断线
// 按玩家 ID 扫描在线房间定位归属（ID 全局唯一，至多一个房间命中）；
// 房间因此变空时立刻销毁
func (m *Manager) LeaveRoom(client types.ClientInterface) {
	r := m.GetRoomByPlayerID(client.GetID())
	if r == nil {
		return
	}

	if r.RemovePlayer(client.GetID()) {
		m.removeRoom(r.Code)
	} else {
		log.Printf("👋 玩家 %s 离开房间 %s", client.GetName(), r.Code)
	}
}

// GetRoom 获取房间
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// GetRoomByPlayerID 通过玩家 ID 获取房间
func (m *Manager) GetRoomByPlayerID(playerID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rooms {
		if r.HasPlayer(playerID) {
			return r
		}
	}
	return nil
}

// RoomCount 当前在线房间数
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// removeRoom 销毁房间
func (m *Manager) removeRoom(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	log.Printf("🏠 房间 %s 已解散", code)
}

// archiveResult 终局归档：结果入 Redis，目标名次达成计入排行榜
// 在独立协程中执行，失败只打日志
func (m *Manager) archiveResult(result *storage.GameResult) {
	if m.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.store.SaveResult(ctx, result); err != nil {
		log.Printf("对局结果归档失败 (房间 %s): %v", result.RoomCode, err)
	}

	if m.boards == nil {
		return
	}
	for _, s := range result.Standings {
		if err := m.boards.RecordGame(ctx, s.PlayerName); err != nil {
			log.Printf("排行榜更新失败: %v", err)
			return
		}
	}
	if result.Winner != nil {
		if err := m.boards.RecordWin(ctx, result.Winner.PlayerName); err != nil {
			log.Printf("排行榜更新失败: %v", err)
		}
	}
}

// generateRoomCode 生成唯一房间号，撞号就重试
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup 清理等待超时的房间
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	for code, r := range m.rooms {
		r.mu.Lock()
		if r.State == StateWaiting && now.Sub(r.CreatedAt) > m.cfg.Game.RoomTimeoutDuration() {
			r.broadcastLocked(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间等待超时已关闭"))
			for _, p := range r.Players {
				p.Client.SetRoom("")
			}
			r.stopTimerLocked()
			r.mu.Unlock()
			delete(m.rooms, code)
			log.Printf("🧹 房间 %s 等待超时已清理", code)
		} else {
			r.mu.Unlock()
		}
	}
}
