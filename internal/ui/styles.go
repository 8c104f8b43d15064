package ui

import "github.com/charmbracelet/lipgloss"

// Lipgloss 样式
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	loseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	chosenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	timerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// choiceIcon 出拳图标
func choiceIcon(choice string) string {
	switch choice {
	case "rock":
		return "✊ 石头"
	case "scissors":
		return "✌️ 剪刀"
	case "paper":
		return "🖐 布"
	default:
		return "⏳ 未出"
	}
}
