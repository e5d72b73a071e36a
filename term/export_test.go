package term

import tea "github.com/charmbracelet/bubbletea"

func TickMsg() tea.Msg { return tickMsg{} }
