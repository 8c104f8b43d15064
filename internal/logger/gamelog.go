package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GameLog 对局日志，按房间落盘
// 每个房间的关键事件（创建、进出、每轮结果、最终名次）追加写入
// logs/<房间号>-<日期>.txt，方便事后排查某一局的争议
type GameLog struct {
	dir string
	mu  sync.Mutex
}

// NewGameLog 创建对局日志，目录不存在时自动创建
func NewGameLog(dir string) (*GameLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建对局日志目录失败: %w", err)
	}
	return &GameLog{dir: dir}, nil
}

// Event 记录一条房间事件
// 写盘失败只打日志，绝不影响对局进行
func (g *GameLog) Event(roomCode, format string, args ...any) {
	if g == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	name := fmt.Sprintf("%s-%s.txt", roomCode, now.Format("2006-01-02"))
	line := fmt.Sprintf("[%s] %s\n", now.Format(time.RFC3339), fmt.Sprintf(format, args...))

	f, err := os.OpenFile(filepath.Join(g.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("对局日志写入失败: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		log.Printf("对局日志写入失败: %v", err)
	}
}
