package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var body string
	switch m.phase {
	case PhaseConnecting:
		body = m.viewConnecting()
	case PhaseMenu:
		body = m.viewMenu()
	case PhaseCreateForm, PhaseJoinForm:
		body = m.viewForm()
	case PhaseLobby:
		body = m.viewLobby()
	case PhasePlaying:
		body = m.viewGame()
	case PhaseResult:
		body = m.viewResult()
	case PhaseLeaderboard:
		body = m.viewLeaderboard()
	}
	return docStyle.Render(body)
}

func (m *Model) viewConnecting() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("✊✌️🖐 猜拳淘汰赛"))
	sb.WriteString("\n\n")
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
	} else {
		sb.WriteString("正在连接服务器...")
	}
	return sb.String()
}

func (m *Model) viewMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("✊✌️🖐 猜拳淘汰赛"))
	sb.WriteString("\n\n")
	if m.client.PlayerName != "" {
		sb.WriteString(fmt.Sprintf("欢迎, %s!\n\n", m.client.PlayerName))
	}

	menuItems := []string{"1. 创建房间", "2. 加入房间", "3. 排行榜"}
	for i, item := range menuItems {
		prefix := "  "
		if i == m.menuIndex {
			prefix = "▶ "
		}
		sb.WriteString(prefix + item + "\n")
	}

	if m.errMsg != "" {
		sb.WriteString("\n" + errorStyle.Render(m.errMsg))
	}
	sb.WriteString("\n" + hintStyle.Render("↑/↓ 选择 | Enter 确认 | q 退出"))
	return sb.String()
}

func (m *Model) viewForm() string {
	var sb strings.Builder
	if m.phase == PhaseCreateForm {
		sb.WriteString(titleStyle("创建房间"))
	} else {
		sb.WriteString(titleStyle("加入房间"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString("\n" + errorStyle.Render(m.errMsg))
	}
	sb.WriteString("\n" + hintStyle.Render("Enter 确认 | ESC 返回"))
	return sb.String()
}

func (m *Model) viewLobby() string {
	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s", m.roomCode)))
	sb.WriteString("\n\n")

	if m.snapshot != nil {
		sb.WriteString(fmt.Sprintf("人数: %d/%d | 目标名次: 第 %d 名\n\n",
			len(m.snapshot.Players), m.snapshot.MaxPlayers, m.snapshot.TargetRank))
		sb.WriteString(m.renderPlayerList())
	}

	if m.errMsg != "" {
		sb.WriteString("\n" + errorStyle.Render(m.errMsg))
	}
	sb.WriteString("\n")
	if m.isHost() {
		sb.WriteString(hintStyle.Render("Enter 开始游戏 | ESC 离开房间"))
	} else {
		sb.WriteString(hintStyle.Render("等待房主开始... | ESC 离开房间"))
	}
	return sb.String()
}

func (m *Model) viewGame() string {
	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s — 第 %d 轮", m.roomCode, m.round)))
	sb.WriteString("\n\n")

	if m.lastResult != nil {
		// 出拳窗口结束，展示本轮结果
		sb.WriteString(m.renderRoundResult())
	} else {
		sb.WriteString(timerStyle.Render(fmt.Sprintf("⏰ 剩余 %d 秒", m.secondsLeft)))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderPlayerList())
		sb.WriteString("\n")
		if m.myStatus() != "active" {
			sb.WriteString(hintStyle.Render("你已定名次，观战中..."))
		} else if m.myChoice != "" {
			sb.WriteString(chosenStyle.Render("已出: " + choiceIcon(m.myChoice)))
		} else {
			sb.WriteString("出拳: [r] ✊ 石头  [p] 🖐 布  [s] ✌️ 剪刀")
		}
	}

	sb.WriteString("\n\n" + hintStyle.Render("ESC 离开房间"))
	return sb.String()
}

func (m *Model) viewResult() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏁 游戏结束"))
	sb.WriteString("\n\n")

	if m.lastResult != nil {
		if m.lastResult.AchievedTarget != nil {
			t := m.lastResult.AchievedTarget
			line := fmt.Sprintf("⭐ %s 拿到目标名次 第 %d 名！", t.Name, t.Rank)
			sb.WriteString(winStyle.Render(line))
			sb.WriteString("\n\n")
		}
		for _, w := range m.lastResult.FinalWinners {
			sb.WriteString(winStyle.Render(fmt.Sprintf("🏆 %s 并列第 1 名", w.Name)))
			sb.WriteString("\n")
		}
	}

	if m.snapshot != nil && len(m.snapshot.Ranked) > 0 {
		sb.WriteString("最终名次:\n")
		var lines []string
		for _, p := range m.snapshot.Ranked {
			line := fmt.Sprintf("第 %d 名  %s", p.Rank, p.Name)
			if m.snapshot.TargetRank == p.Rank {
				line += " ⭐"
			}
			lines = append(lines, line)
		}
		sb.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
		sb.WriteString("\n")
	}

	if m.redirecting {
		sb.WriteString("\n" + hintStyle.Render("房间即将关闭..."))
	}
	sb.WriteString("\n")
	if m.isHost() {
		sb.WriteString(hintStyle.Render("Enter 再来一局 | ESC 回到主菜单"))
	} else {
		sb.WriteString(hintStyle.Render("ESC 回到主菜单"))
	}
	return sb.String()
}

func (m *Model) viewLeaderboard() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏆 胜场排行榜"))
	sb.WriteString("\n\n")

	if m.leaderboard == nil {
		sb.WriteString("加载中...")
	} else if len(m.leaderboard) == 0 {
		sb.WriteString(hintStyle.Render("还没有人登顶，快去赢一局吧"))
	} else {
		var lines []string
		for _, e := range m.leaderboard {
			lines = append(lines, fmt.Sprintf("%2d. %-12s %d 胜", e.Rank, e.PlayerName, e.Wins))
		}
		sb.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	}

	sb.WriteString("\n\n" + hintStyle.Render("ESC 返回"))
	return sb.String()
}

// renderPlayerList 渲染玩家列表
func (m *Model) renderPlayerList() string {
	if m.snapshot == nil {
		return ""
	}
	var lines []string
	for _, p := range m.snapshot.Players {
		marker := "  "
		if p.ID == m.snapshot.HostID {
			marker = "👑"
		}
		name := p.Name
		if p.ID == m.client.PlayerID {
			name += " (我)"
		}
		suffix := ""
		switch {
		case p.Status == "ranked":
			suffix = hintStyle.Render(" 已定名次")
		case m.snapshot.State == "playing" && p.HasChosen:
			suffix = chosenStyle.Render(" ✓ 已出拳")
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", marker, name, suffix))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderRoundResult 渲染本轮结果
func (m *Model) renderRoundResult() string {
	var lines []string
	for _, p := range m.lastResult.Players {
		line := fmt.Sprintf("%-12s %s", p.Name, choiceIcon(p.Choice))
		if p.Eliminated {
			line = loseStyle.Render(line + "  出局")
		}
		lines = append(lines, line)
	}
	body := boxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, "本轮结果:", body)
}
