package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/rps-arena/internal/protocol"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 2048
)

// Client 代表一个连接的玩家
// ID 是连接级的：断线重连就是一个全新的玩家
type Client struct {
	ID       string // 玩家唯一 ID
	RoomCode string // 当前所在房间号
	IP       string // 客户端 IP 地址

	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	release func() // 归还连接信号量

	mu     sync.RWMutex
	name   string
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		name:   GenerateNickname(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// GetID 返回玩家 ID
func (c *Client) GetID() string { return c.ID }

// GetName 返回昵称
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetName 设置昵称，空串忽略（保留连接时生成的默认昵称）
func (c *Client) SetName(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

// GetRoom 返回所在房间号
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomCode
}

// SetRoom 设置所在房间号
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	c.RoomCode = code
	c.mu.Unlock()
}

// SendMessage 发送消息
// 发送缓冲满或连接已关闭时直接丢弃，绝不阻塞房间引擎
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("消息编码失败: %v", err)
		return
	}

	// 读锁覆盖 closed 检查和写入本身，Close 持写锁关通道，
	// 保证不会往已关闭的通道里发
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("⚠️ 玩家 %s 发送缓冲已满，丢弃消息 %s", c.name, msg.Type)
	}
}

// Close 关闭客户端
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			break
		}

		// 消息速率限制检查
		if !c.server.messageLimiter.Allow(c.ID) {
			log.Printf("⚠️ 玩家 %s (IP: %s) 消息过于频繁", c.GetName(), c.IP)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeRateLimit))
			// 警告次数过多，断开连接
			if c.server.messageLimiter.Warnings(c.ID) > 5 {
				log.Printf("🚫 玩家 %s 因多次超速被断开连接", c.GetName())
				break
			}
			continue
		}

		// 解析消息
		msg, err := protocol.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		// 交给处理器处理
		c.server.handler.Handle(c, msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleDisconnect 连接断开：退出所在房间并注销
func (c *Client) handleDisconnect() {
	c.server.manager.LeaveRoom(c)
	c.server.unregisterClient(c)
	c.server.messageLimiter.Remove(c.ID)
	c.Close()
	if c.release != nil {
		c.release()
	}
	log.Printf("📴 玩家 %s (%s) 已断开", c.GetName(), c.ID)
}
