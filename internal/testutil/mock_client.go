package testutil

import (
	"sync"

	"github.com/palemoky/rps-arena/internal/protocol"
)

// SimpleClient 实现 types.ClientInterface 的简单 mock，记录收到的全部消息
type SimpleClient struct {
	ID       string
	Name     string
	RoomCode string

	mu       sync.Mutex
	messages []*protocol.Message
}

func (m *SimpleClient) GetID() string   { return m.ID }
func (m *SimpleClient) GetName() string { return m.Name }
func (m *SimpleClient) SetName(name string) {
	if name != "" {
		m.Name = name
	}
}
func (m *SimpleClient) GetRoom() string     { return m.RoomCode }
func (m *SimpleClient) SetRoom(code string) { m.RoomCode = code }
func (m *SimpleClient) Close()              {}

func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Messages 返回已收到消息的副本
func (m *SimpleClient) Messages() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*protocol.Message(nil), m.messages...)
}

// LastOfType 返回最后一条指定类型的消息，没有则返回 nil
func (m *SimpleClient) LastOfType(t protocol.MessageType) *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Type == t {
			return m.messages[i]
		}
	}
	return nil
}

// CountOfType 统计指定类型消息的数量
func (m *SimpleClient) CountOfType(t protocol.MessageType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.Type == t {
			n++
		}
	}
	return n
}
