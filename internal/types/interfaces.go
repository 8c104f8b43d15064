package types

import (
	"github.com/palemoky/rps-arena/internal/protocol"
)

// ClientInterface 定义客户端接口
// 房间引擎只依赖这个窄接口，不关心底层传输
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}
