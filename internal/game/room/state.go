package room

// State 房间状态
type State int

const (
	StateWaiting State = iota
	StatePlaying
	StateFinished
)

// String 返回协议中使用的状态字符串
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParticipantStatus 玩家状态
type ParticipantStatus int

const (
	StatusActive ParticipantStatus = iota // 还在比赛中
	StatusRanked                          // 已定名次
)

// String 返回协议中使用的状态字符串
func (s ParticipantStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRanked:
		return "ranked"
	default:
		return "unknown"
	}
}
