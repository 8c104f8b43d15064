package protocol

// --- 客户端请求 Payloads ---

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Nickname   string `json:"nickname"`
	MaxPlayers int    `json:"max_players"` // 房间人数上限
	TargetRank int    `json:"target_rank"` // 目标名次
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Nickname string `json:"nickname"`
}

// GetRoomPayload 同步房间状态请求
type GetRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// StartGamePayload 开始游戏请求
type StartGamePayload struct {
	RoomCode string `json:"room_code"`
}

// MakeChoicePayload 出拳请求
type MakeChoicePayload struct {
	RoomCode string `json:"room_code"`
	Choice   string `json:"choice"` // rock/paper/scissors
}

// LeaveRoomPayload 离开房间请求
type LeaveRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// GetLeaderboardPayload 排行榜查询请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"` // 返回条数，0 用默认值
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
// ID 是连接级的，断线重连会拿到新 ID（新玩家）
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

// JoinedRoomPayload 加入房间成功响应
type JoinedRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// PlayerInfo 玩家信息（快照用）
// 注意：只暴露是否已出拳，具体出了什么只在 round_result 中公开
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"` // active/ranked
	HasChosen bool   `json:"has_chosen"`
}

// RankedPlayer 已定名次的玩家
type RankedPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// RoomSnapshot 房间状态快照
type RoomSnapshot struct {
	RoomCode     string         `json:"room_code"`
	State        string         `json:"state"` // waiting/playing/finished
	HostID       string         `json:"host_id"`
	MaxPlayers   int            `json:"max_players"`
	TargetRank   int            `json:"target_rank"`
	CurrentRound int            `json:"current_round"`
	Players      []PlayerInfo   `json:"players"`
	Ranked       []RankedPlayer `json:"ranked"`
}

// NewRoundPayload 新一轮开始通知
type NewRoundPayload struct {
	Round int `json:"round"`
}

// TimerPayload 倒计时通知
type TimerPayload struct {
	SecondsLeft int `json:"seconds_left"`
}

// RoundPlayerResult 本轮中单个玩家的结果
type RoundPlayerResult struct {
	Name       string `json:"name"`
	Choice     string `json:"choice"` // 空字符串表示未出拳
	Eliminated bool   `json:"eliminated"`
}

// RoundResultPayload 本轮结果通知
type RoundResultPayload struct {
	Round          int                 `json:"round"`
	GameOver       bool                `json:"game_over"`
	Players        []RoundPlayerResult `json:"players"`
	AchievedTarget *RankedPlayer       `json:"achieved_target,omitempty"` // 本轮拿到目标名次的玩家
	FinalWinners   []RankedPlayer      `json:"final_winners,omitempty"`   // 轮次上限强制结算时共享第一名的玩家
}

// LeaderboardEntry 排行榜中的一条
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
}

// LeaderboardPayload 排行榜数据
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
