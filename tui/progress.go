// Package tui implements the live progress display shown by cmd/crtdemo
// while it runs a source picture through the encode/decode pipeline.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// FrameDoneMsg reports that one field/frame has been encoded and
// decoded, for the model to fold into its running totals.
type FrameDoneMsg struct {
	Index   int
	HSync   int
	VSync   int
}

// QuitMsg tells the model the pipeline has finished running entirely.
type QuitMsg struct{}

// Model is the bubbletea model backing crtdemo's progress display.
type Model struct {
	Total   int
	done    int
	lastH   int
	lastV   int
	Updates <-chan tea.Msg
}

// NewModel builds a Model that reads frame-completion events from
// updates until it receives a QuitMsg or the channel closes.
func NewModel(total int, updates <-chan tea.Msg) Model {
	return Model{Total: total, Updates: updates}
}

func (m Model) Init() tea.Cmd {
	return m.waitForUpdate
}

func (m Model) waitForUpdate() tea.Msg {
	msg, ok := <-m.Updates
	if !ok {
		return QuitMsg{}
	}
	return msg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case FrameDoneMsg:
		m.done = v.Index + 1
		m.lastH, m.lastV = v.HSync, v.VSync
		return m, m.waitForUpdate
	case QuitMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if v.String() == "ctrl+c" || v.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.Total == 0 {
		return doneStyle.Render("no frames to encode\n")
	}
	width := 30
	filled := width * m.done / m.Total
	if filled > width {
		filled = width
	}
	bar := barStyle.Render(repeat("#", filled)) + repeat(".", width-filled)
	return fmt.Sprintf("%s\n[%s] %d/%d  hsync=%d vsync=%d\n",
		titleStyle.Render("ntsccrt"), bar, m.done, m.Total, m.lastH, m.lastV)
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
