package server

import (
	"sync"
	"time"
)

// MessageRateLimiter 单连接消息速率限制
// 固定窗口计数，超限累计警告，由调用方决定何时断开
type MessageRateLimiter struct {
	maxPerSecond int
	mu           sync.Mutex
	clients      map[string]*msgWindow
}

type msgWindow struct {
	windowStart time.Time
	count       int
	warnings    int
}

// NewMessageRateLimiter 创建消息速率限制器
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		maxPerSecond: maxPerSecond,
		clients:      make(map[string]*msgWindow),
	}
}

// Allow 检查该连接是否允许再处理一条消息
func (l *MessageRateLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.clients[clientID]
	if !exists {
		w = &msgWindow{windowStart: now}
		l.clients[clientID] = w
	}

	if now.Sub(w.windowStart) >= time.Second {
		w.windowStart = now
		w.count = 0
	}

	w.count++
	if w.count > l.maxPerSecond {
		w.warnings++
		return false
	}
	return true
}

// Warnings 返回该连接累计的超速警告次数
func (l *MessageRateLimiter) Warnings(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w, exists := l.clients[clientID]; exists {
		return w.warnings
	}
	return 0
}

// Remove 连接断开后清理状态
func (l *MessageRateLimiter) Remove(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}
