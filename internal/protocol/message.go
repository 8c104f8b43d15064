package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgGetRoom    MessageType = "get_room"    // 同步房间状态
	MsgStartGame  MessageType = "start_game"  // 开始游戏（仅房主）
	MsgMakeChoice MessageType = "make_choice" // 出拳
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间

	MsgGetLeaderboard MessageType = "get_leaderboard" // 查询胜场排行榜
)

// 服务端 → 客户端 消息类型
const (
	MsgConnected        MessageType = "connected"          // 连接成功，下发连接级玩家 ID
	MsgRoomCreated      MessageType = "room_created"       // 房间创建成功（仅创建者）
	MsgJoinedRoom       MessageType = "joined_room"        // 加入房间成功（仅加入者）
	MsgUpdateRoom       MessageType = "update_room"        // 房间状态快照
	MsgNewRound         MessageType = "new_round"          // 新一轮开始
	MsgTimer            MessageType = "timer"              // 倒计时
	MsgRoundResult      MessageType = "round_result"       // 本轮结果
	MsgGameOverRedirect MessageType = "game_over_redirect" // 游戏结束，跳转
	MsgLeaderboard      MessageType = "leaderboard"        // 排行榜数据
	MsgError            MessageType = "error_message"      // 错误消息
)
