package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/rps-arena/internal/client"
	"github.com/palemoky/rps-arena/internal/protocol"
)

// 游戏阶段
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseMenu
	PhaseCreateForm
	PhaseJoinForm
	PhaseLobby
	PhasePlaying
	PhaseResult
	PhaseLeaderboard
)

// 表单步骤
type formStep int

const (
	stepNickname formStep = iota
	stepMaxPlayers
	stepTargetRank
	stepRoomCode
)

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功消息
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接错误消息
type ConnectionErrorMsg struct {
	Err error
}

// DisconnectedMsg 连接断开消息
type DisconnectedMsg struct{}

// Model 客户端 TUI model
type Model struct {
	client *client.Client
	phase  Phase
	errMsg string

	// 菜单
	menuIndex int

	// 表单
	input      textinput.Model
	step       formStep
	nickname   string
	maxPlayers string
	targetRank string

	// 房间状态
	roomCode string
	snapshot *protocol.RoomSnapshot

	// 对局状态
	round       int
	secondsLeft int
	myChoice    string
	lastResult  *protocol.RoundResultPayload
	redirecting bool

	leaderboard []protocol.LeaderboardEntry

	width  int
	height int
}

// NewModel 创建 TUI model
func NewModel(serverURL string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称..."
	ti.CharLimit = 20
	ti.Width = 24
	ti.Focus()

	return &Model{
		client: client.NewClient(serverURL),
		phase:  PhaseConnecting,
		input:  ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connectToServer(), textinput.Blink)
}

// connectToServer 连接服务器
func (m *Model) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listenForMessages 监听服务器消息
func (m *Model) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.client.Receive()
		if !ok {
			return DisconnectedMsg{}
		}
		return ServerMessage{Msg: msg}
	}
}

// isHost 当前玩家是否为房主
func (m *Model) isHost() bool {
	return m.snapshot != nil && m.snapshot.HostID == m.client.PlayerID
}

// myStatus 当前玩家在快照中的状态
func (m *Model) myStatus() string {
	if m.snapshot == nil {
		return ""
	}
	for _, p := range m.snapshot.Players {
		if p.ID == m.client.PlayerID {
			return p.Status
		}
	}
	return ""
}
