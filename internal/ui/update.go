package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/rps-arena/internal/protocol"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseMenu
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.errMsg = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting

	case DisconnectedMsg:
		m.errMsg = "与服务器的连接已断开\n\n按 ESC 退出"

	case ServerMessage:
		cmds = append(cmds, m.handleServerMessage(msg.Msg))
		cmds = append(cmds, m.listenForMessages())
	}

	// 表单阶段把按键喂给输入框
	if m.phase == PhaseCreateForm || m.phase == PhaseJoinForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress 处理按键，返回是否已消费
func (m *Model) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.client.Close()
		return true, tea.Quit
	}

	switch m.phase {
	case PhaseConnecting:
		if key == "esc" || key == "q" {
			m.client.Close()
			return true, tea.Quit
		}

	case PhaseMenu:
		switch key {
		case "q", "esc":
			m.client.Close()
			return true, tea.Quit
		case "up", "k":
			if m.menuIndex > 0 {
				m.menuIndex--
			}
			return true, nil
		case "down", "j":
			if m.menuIndex < 2 {
				m.menuIndex++
			}
			return true, nil
		case "1":
			m.enterCreateForm()
			return true, nil
		case "2":
			m.enterJoinForm()
			return true, nil
		case "3":
			m.enterLeaderboard()
			return true, nil
		case "enter":
			switch m.menuIndex {
			case 0:
				m.enterCreateForm()
			case 1:
				m.enterJoinForm()
			case 2:
				m.enterLeaderboard()
			}
			return true, nil
		}

	case PhaseCreateForm, PhaseJoinForm:
		switch key {
		case "esc":
			m.phase = PhaseMenu
			m.errMsg = ""
			return true, nil
		case "enter":
			return true, m.submitFormStep()
		}

	case PhaseLobby:
		switch key {
		case "esc", "q":
			_ = m.client.LeaveRoom(m.roomCode)
			m.leaveToMenu()
			return true, nil
		case "enter", "s":
			if m.isHost() {
				_ = m.client.StartGame(m.roomCode)
			}
			return true, nil
		}

	case PhasePlaying:
		switch key {
		case "esc", "q":
			_ = m.client.LeaveRoom(m.roomCode)
			m.leaveToMenu()
			return true, nil
		case "r":
			return true, m.sendChoice("rock")
		case "p":
			return true, m.sendChoice("paper")
		case "s":
			return true, m.sendChoice("scissors")
		}

	case PhaseLeaderboard:
		if key == "esc" || key == "q" {
			m.phase = PhaseMenu
			return true, nil
		}

	case PhaseResult:
		switch key {
		case "esc", "q":
			_ = m.client.LeaveRoom(m.roomCode)
			m.leaveToMenu()
			return true, nil
		case "enter":
			// 房主可以原房间再来一局
			if m.isHost() {
				_ = m.client.StartGame(m.roomCode)
			}
			return true, nil
		}
	}

	return false, nil
}

// enterCreateForm 进入创建房间表单
func (m *Model) enterCreateForm() {
	m.phase = PhaseCreateForm
	m.step = stepNickname
	m.errMsg = ""
	m.input.Placeholder = "输入昵称（留空用随机昵称）..."
	m.input.CharLimit = 20
	m.input.SetValue("")
	m.input.Focus()
}

// enterLeaderboard 进入排行榜并发起查询
func (m *Model) enterLeaderboard() {
	m.phase = PhaseLeaderboard
	m.leaderboard = nil
	m.errMsg = ""
	_ = m.client.GetLeaderboard(10)
}

// enterJoinForm 进入加入房间表单
func (m *Model) enterJoinForm() {
	m.phase = PhaseJoinForm
	m.step = stepRoomCode
	m.errMsg = ""
	m.input.Placeholder = "输入房间号..."
	m.input.CharLimit = 8
	m.input.SetValue("")
	m.input.Focus()
}

// submitFormStep 提交当前表单步骤
func (m *Model) submitFormStep() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepNickname:
		m.nickname = value
		if m.phase == PhaseJoinForm {
			_ = m.client.JoinRoom(m.roomCode, m.nickname)
			return nil
		}
		m.step = stepMaxPlayers
		m.input.Placeholder = "房间人数上限（2-16）..."
		m.input.CharLimit = 2
		m.input.SetValue("")
	case stepMaxPlayers:
		m.maxPlayers = value
		m.step = stepTargetRank
		m.input.Placeholder = "目标名次（默认 1）..."
		m.input.CharLimit = 2
		m.input.SetValue("")
	case stepTargetRank:
		m.targetRank = value
		maxPlayers, _ := strconv.Atoi(m.maxPlayers)
		targetRank, _ := strconv.Atoi(m.targetRank)
		_ = m.client.CreateRoom(m.nickname, maxPlayers, targetRank)
	case stepRoomCode:
		if value == "" {
			return nil
		}
		m.roomCode = strings.ToUpper(value)
		m.step = stepNickname
		m.input.Placeholder = "输入昵称（留空用随机昵称）..."
		m.input.CharLimit = 20
		m.input.SetValue("")
	}
	return nil
}

// sendChoice 出拳并本地记录，重复按键由服务端忽略
func (m *Model) sendChoice(choice string) tea.Cmd {
	if m.myChoice == "" && m.myStatus() == "active" {
		m.myChoice = choice
		_ = m.client.MakeChoice(m.roomCode, choice)
	}
	return nil
}

// leaveToMenu 回到主菜单并清空房间状态
func (m *Model) leaveToMenu() {
	m.phase = PhaseMenu
	m.roomCode = ""
	m.snapshot = nil
	m.lastResult = nil
	m.myChoice = ""
	m.round = 0
	m.secondsLeft = 0
	m.errMsg = ""
	m.redirecting = false
}

// handleServerMessage 处理服务器下发的消息
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		if payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.roomCode = payload.RoomCode
			m.phase = PhaseLobby
			m.errMsg = ""
		}

	case protocol.MsgJoinedRoom:
		if payload, err := protocol.ParsePayload[protocol.JoinedRoomPayload](msg); err == nil {
			m.roomCode = payload.RoomCode
			m.phase = PhaseLobby
			m.errMsg = ""
		}

	case protocol.MsgUpdateRoom:
		if payload, err := protocol.ParsePayload[protocol.RoomSnapshot](msg); err == nil {
			m.snapshot = payload
			// 快照驱动阶段切换，迟到的客户端也能跟上
			if payload.State == "playing" && m.phase == PhaseLobby {
				m.phase = PhasePlaying
			}
		}

	case protocol.MsgNewRound:
		if payload, err := protocol.ParsePayload[protocol.NewRoundPayload](msg); err == nil {
			m.round = payload.Round
			m.myChoice = ""
			m.lastResult = nil
			m.redirecting = false
			m.phase = PhasePlaying
		}

	case protocol.MsgTimer:
		if payload, err := protocol.ParsePayload[protocol.TimerPayload](msg); err == nil {
			m.secondsLeft = payload.SecondsLeft
		}

	case protocol.MsgRoundResult:
		if payload, err := protocol.ParsePayload[protocol.RoundResultPayload](msg); err == nil {
			m.lastResult = payload
			if payload.GameOver {
				m.phase = PhaseResult
			}
		}

	case protocol.MsgGameOverRedirect:
		m.redirecting = true

	case protocol.MsgLeaderboard:
		if payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg); err == nil {
			m.leaderboard = payload.Entries
		}

	case protocol.MsgError:
		if payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.errMsg = payload.Message
		}
	}
	return nil
}
