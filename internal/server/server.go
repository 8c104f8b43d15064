package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/rps-arena/internal/config"
	"github.com/palemoky/rps-arena/internal/game/room"
	"github.com/palemoky/rps-arena/internal/logger"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/handler"
	"github.com/palemoky/rps-arena/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	redis          *redis.Client
	store          *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	manager        *room.Manager
	handler        *handler.Handler
	messageLimiter *MessageRateLimiter

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	// 对局日志落在工作目录的 logs/ 下
	gamelog, err := logger.NewGameLog("logs")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		store:          storage.NewRedisStore(rdb),
		leaderboard:    storage.NewLeaderboardManager(rdb),
		clients:        make(map[string]*Client),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageRate),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	// 初始化房间管理器和消息处理器
	s.manager = room.NewManager(cfg, s.store, s.leaderboard, gamelog)
	s.handler = handler.NewHandler(s.manager, s.leaderboard)

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/results", s.handleResults)

	// 启动监控协程
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
	}
	return server.ListenAndServe()
}

// Shutdown 关闭服务器，断开所有连接
func (s *Server) Shutdown() {
	s.clientsMu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	_ = s.redis.Close()
	log.Println("👋 服务器已关闭")
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 连接数限制检查，信号量在断开时归还
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d)", s.maxConnections)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	// 创建客户端
	client := NewClient(s, conn)
	client.IP = r.RemoteAddr
	client.release = func() { <-s.semaphore }
	s.registerClient(client)

	// 下发连接级玩家 ID，客户端用它识别自己（比如判断是不是房主）
	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.GetName(),
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.GetName(), client.ID)

	// 启动客户端读写协程
	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"online": s.GetOnlineCount(),
		"rooms":  s.manager.RoomCount(),
	})
}

// handleResults 查询某个房间号的历史对局归档
// 房间号会被复用，返回的是该号码下的全部对局
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("room")
	if code == "" {
		http.Error(w, "missing room", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	results, err := s.store.LoadResults(ctx, code)
	if err != nil {
		log.Printf("对局归档查询失败 (房间 %s): %v", code, err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// GetOnlineCount 当前在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// registerClient 注册客户端
func (s *Server) registerClient(c *Client) {
	s.clientsMu.Lock()
	s.clients[c.ID] = c
	s.clientsMu.Unlock()
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(c *Client) {
	s.clientsMu.Lock()
	delete(s.clients, c.ID)
	s.clientsMu.Unlock()
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | 房间: %d | Goroutines: %d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.manager.RoomCount(),
			runtime.NumGoroutine(),
			float64(m.Alloc)/1024/1024)
	}
}
